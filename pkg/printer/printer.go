package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Printer sends raw ESC/POS data to a thermal printer.
type Printer interface {
	// Print sends one job. Each job opens and closes its own connection.
	Print(ctx context.Context, name string, data []byte) error
	// IsConnected reports whether the device answers right now.
	IsConnected(ctx context.Context) bool
	Close() error
}

// Config selects and addresses the printer.
type Config struct {
	Type         string // usb, network, spool or none
	USBPath      string
	Address      string
	SpoolDir     string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// New builds the printer described by cfg.
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case "usb":
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return &usbPrinter{path: cfg.USBPath}, nil
	case "network":
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return newNetworkPrinter(cfg), nil
	case "spool":
		if cfg.SpoolDir == "" {
			return nil, fmt.Errorf("printer: spool directory is required for spool printer type")
		}
		return &spoolPrinter{dir: cfg.SpoolDir}, nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, spool or none)", cfg.Type)
	}
}

// usbPrinter writes to a device file such as /dev/usb/lp0.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s to USB device %s: %w", name, p.path, err)
	}
	return nil
}

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Close() error { return nil }

// networkPrinter talks raw TCP, usually port 9100.
type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func newNetworkPrinter(cfg Config) *networkPrinter {
	p := &networkPrinter{
		address:      cfg.Address,
		dialTimeout:  cfg.DialTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
	if p.dialTimeout <= 0 {
		p.dialTimeout = 5 * time.Second
	}
	if p.writeTimeout <= 0 {
		p.writeTimeout = 10 * time.Second
	}
	return p
}

func (p *networkPrinter) Print(ctx context.Context, name string, data []byte) error {
	d := net.Dialer{Timeout: p.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s to %s: %w", name, p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Close() error { return nil }

// spoolPrinter drops each job as <name>.bin in a directory, for a print
// daemon to pick up or for inspection on machines without hardware.
type spoolPrinter struct {
	dir string
}

func (p *spoolPrinter) Print(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("printer: create spool dir: %w", err)
	}
	path := filepath.Join(p.dir, filepath.Base(name)+".bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("printer: spool %s: %w", name, err)
	}
	return nil
}

func (p *spoolPrinter) IsConnected(context.Context) bool {
	info, err := os.Stat(p.dir)
	return err == nil && info.IsDir()
}

func (p *spoolPrinter) Close() error { return nil }

type nullPrinter struct{}

// NewNullPrinter discards every job. Used when no printer is configured.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(context.Context, string, []byte) error { return nil }

func (p *nullPrinter) IsConnected(context.Context) bool { return false }

func (p *nullPrinter) Close() error { return nil }
