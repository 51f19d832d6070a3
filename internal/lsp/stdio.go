package lsp

import "io"

// StdioConn joins a reader and a writer, typically os.Stdin and os.Stdout,
// into the stream Serve expects.
type StdioConn struct {
	Reader io.ReadCloser
	Writer io.WriteCloser
}

func (s StdioConn) Read(p []byte) (int, error)  { return s.Reader.Read(p) }
func (s StdioConn) Write(p []byte) (int, error) { return s.Writer.Write(p) }

func (s StdioConn) Close() error {
	_ = s.Reader.Close()
	return s.Writer.Close()
}
