/*
Package codec provides validated compression and decompression of byte
buffers for a single algorithm and level pair.

A Codec is valid by construction: the algorithm and level are checked once,
when the codec is created, and never again at call time. Construction with an
unsupported algorithm or a level outside [1, 9] fails with a ValidationError
and produces no usable instance.

	c, err := codec.New(codec.Gzip, 6)
	if err != nil {
		log.Fatal(err)
	}

	compressed, _ := c.Compress(data)
	original, _ := c.Decompress(compressed)

Supported algorithms and their file extensions:

	codec.Gzip    -> ".gz"
	codec.Deflate -> ".zz" (zlib framing)
	codec.Bzip2   -> ".bz2"

Output uses standard framing and is interoperable with off-the-shelf tools
for each format. There is no guarantee of compression ratio, only of
round-trip correctness: Decompress(Compress(x)) == x for every supported
algorithm and level, including empty input.

Malformed input to Decompress fails with a *DecodeError carrying the
algorithm and the underlying decoder error. The codec never retries; wrap
calls with pkg/retry if retry behavior is wanted.
*/
package codec
