package printer

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{Type: "none"}, false},
		{"empty", Config{}, false},
		{"usb without path", Config{Type: "usb"}, true},
		{"network without address", Config{Type: "network"}, true},
		{"spool without dir", Config{Type: "spool"}, true},
		{"unknown", Config{Type: "bluetooth"}, true},
		{"network", Config{Type: "network", Address: "127.0.0.1:9100"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestSpoolPrinter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")
	p, err := New(Config{Type: "spool", SpoolDir: dir})
	require.NoError(t, err)

	require.NoError(t, p.Print(context.Background(), "sale_42", []byte("ticket")))

	data, err := os.ReadFile(filepath.Join(dir, "sale_42.bin"))
	require.NoError(t, err)
	assert.Equal(t, "ticket", string(data))
	assert.True(t, p.IsConnected(context.Background()))
}

func TestNetworkPrinter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p, err := New(Config{Type: "network", Address: ln.Addr().String()})
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), "sale_1", []byte{ESC, '@'}))

	assert.Equal(t, []byte{ESC, '@'}, <-received)
}

func TestDocument_EncodesSpanish(t *testing.T) {
	doc := NewDocument(32)
	doc.Text("¡Gracias! Juárez")

	out := doc.Bytes()
	// PC850: ¡ = 0xAD, á = 0xA0
	assert.True(t, bytes.Contains(out, []byte{0xAD, 'G'}))
	assert.True(t, bytes.Contains(out, []byte{'J', 'u', 0xA0, 'r', 'e', 'z'}))
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@', ESC, 't', 2}))
}

func TestDocument_KeyValueAndColumns(t *testing.T) {
	doc := NewDocument(32)
	doc.KeyValue("TOTAL:", "$55.00").Columns("Cant: 3", "x $10.00", "$30.00", 20)

	lines := bytes.Split(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@', ESC, 't', 2}), []byte{LF})
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "TOTAL:                    $55.00", string(lines[0]))
	assert.Equal(t, "Cant: 3     x $10.00      $30.00", string(lines[1]))
}

func TestWrapColumns(t *testing.T) {
	lines := WrapColumns("Tubo de cobre flexible tipo L media pulgada", 16, "  ")

	assert.Equal(t, []string{"Tubo de cobre", "  flexible tipo", "  L media", "  pulgada"}, lines)
	assert.Equal(t, []string{""}, WrapColumns("", 16, "  "))
	assert.Equal(t, []string{"ABCDEFGH", "  IJKLMN", "  OP"}, WrapColumns("ABCDEFGHIJKLMNOP", 8, "  "))
}
