package packet

import "io"

// byteWriterOf/byteReaderOf adapt a plain io.Writer/io.Reader to the
// io.ByteWriter/io.ByteReader interfaces WriteVarInt/ReadVarInt require,
// without allocating when the underlying stream already satisfies them
// (e.g. a *bytes.Buffer).
func byteWriterOf(w io.Writer) io.ByteWriter {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw
	}
	return &singleByteWriter{w}
}

func byteReaderOf(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &singleByteReader{r}
}

type singleByteWriter struct{ io.Writer }

func (s *singleByteWriter) WriteByte(b byte) error {
	_, err := s.Writer.Write([]byte{b})
	return err
}

type singleByteReader struct{ io.Reader }

func (s *singleByteReader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(s.Reader, b[:])
	return b[0], err
}
