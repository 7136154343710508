package antivirus

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
)

// clamd rejects INSTREAM chunks above StreamMaxLength (25 MB by default).
const maxChunk = 1 << 20

var ErrScanFailed = errors.New("antivirus: scan failed")

// ClamAVScanner streams uploads to a clamd daemon.
type ClamAVScanner struct {
	address string // host:port or a unix socket path
	timeout time.Duration
}

var _ domain.MalwareScanner = (*ClamAVScanner)(nil)

func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping is used by the health check.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return err
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("antivirus: unexpected ping reply %q", reply)
	}
	return nil
}

// Scan returns the signature name when clamd reports a match and an empty
// string for clean data. Any clamd ERROR reply is returned as ErrScanFailed.
func (c *ClamAVScanner) Scan(ctx context.Context, data []byte) (string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("antivirus: connect: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return "", fmt.Errorf("antivirus: send command: %w", err)
	}

	size := make([]byte, 4)
	for start := 0; start < len(data); start += maxChunk {
		end := min(start+maxChunk, len(data))
		binary.BigEndian.PutUint32(size, uint32(end-start))
		if _, err := conn.Write(size); err != nil {
			return "", fmt.Errorf("antivirus: send chunk: %w", err)
		}
		if _, err := conn.Write(data[start:end]); err != nil {
			return "", fmt.Errorf("antivirus: send chunk: %w", err)
		}
	}
	// zero-length chunk terminates the stream
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return "", fmt.Errorf("antivirus: send terminator: %w", err)
	}

	reply, err := readReply(conn)
	if err != nil {
		return "", fmt.Errorf("antivirus: read reply: %w", err)
	}
	return parseReply(reply)
}

func readReply(r io.Reader) (string, error) {
	buf, err := io.ReadAll(io.LimitReader(r, 1024))
	if err != nil && len(buf) == 0 {
		return "", err
	}
	return strings.TrimSpace(string(bytes.TrimRight(buf, "\x00"))), nil
}

// parseReply handles "stream: OK", "stream: <name> FOUND" and
// "stream: <message> ERROR".
func parseReply(reply string) (string, error) {
	_, body, _ := strings.Cut(reply, ":")
	body = strings.TrimSpace(body)
	switch {
	case strings.HasSuffix(body, "FOUND"):
		return strings.TrimSpace(strings.TrimSuffix(body, "FOUND")), nil
	case body == "OK":
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrScanFailed, reply)
	}
}
