package device

import (
	"bufio"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tarm/serial"
	bugst "go.bug.st/serial"

	"github.com/mastercactapus/surfscan/gcode"
)

// SerialConfig names the two ports of a direct hardware setup: the
// printer's command port and the USB-serial adapter carrying the probe
// switch on its CTS pin.
type SerialConfig struct {
	Printer string
	Baud    int
	Switch  string
}

// SerialChannel drives the motion platform over its serial command
// port and reads the probe switch from the CTS modem line of a second
// port.
type SerialChannel struct {
	printer *serial.Port
	br      *bufio.Reader

	sw bugst.Port
}

var _ Channel = &SerialChannel{}

// OpenSerial opens both ports and runs the startup sequence: wait for
// the firmware banner, select metric units, slow the depth axis, and
// home the platform.
func OpenSerial(cfg SerialConfig) (*SerialChannel, error) {
	printer, err := serial.OpenPort(&serial.Config{Name: cfg.Printer, Baud: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("open printer port %s: %v", cfg.Printer, err)
	}

	sw, err := bugst.Open(cfg.Switch, &bugst.Mode{})
	if err != nil {
		printer.Close()
		return nil, fmt.Errorf("open probe switch port %s: %v", cfg.Switch, err)
	}

	ch := &SerialChannel{
		printer: printer,
		br:      bufio.NewReader(printer),
		sw:      sw,
	}

	log.Println("Waiting for printer to start up ...")
	err = ch.waitFor("start")
	if err != nil {
		ch.Close()
		return nil, err
	}

	err = Send(ch, gcode.Metric, gcode.AccelYSlow)
	if err != nil {
		ch.Close()
		return nil, err
	}

	log.Println("Homing probe head ...")
	err = Send(ch,
		gcode.MoveY(gcode.FeedTravel, 180),
		gcode.Home,
		gcode.WaitIdle,
	)
	if err != nil {
		ch.Close()
		return nil, err
	}

	triggered, err := ch.Triggered()
	if err != nil {
		ch.Close()
		return nil, err
	}
	if triggered {
		log.Println("WARNING: Probe is depressed, please release it")
	}
	for triggered {
		time.Sleep(100 * time.Millisecond)
		triggered, err = ch.Triggered()
		if err != nil {
			ch.Close()
			return nil, err
		}
	}

	return ch, nil
}

// waitFor reads lines until one matches want.
func (ch *SerialChannel) waitFor(want string) error {
	for {
		line, err := ch.br.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read printer port: %v", err)
		}
		if strings.TrimSpace(line) == want {
			return nil
		}
	}
}

func (ch *SerialChannel) SendCommand(cmd string) error {
	_, err := ch.printer.Write([]byte(cmd + "\n"))
	if err != nil {
		return fmt.Errorf("write printer port: %v", err)
	}
	return ch.waitFor("ok")
}

func (ch *SerialChannel) Triggered() (bool, error) {
	bits, err := ch.sw.GetModemStatusBits()
	if err != nil {
		return false, fmt.Errorf("read probe switch: %v", err)
	}
	// switch pulls CTS low when touching
	return !bits.CTS, nil
}

func (ch *SerialChannel) Close() error {
	err := ch.printer.Close()
	if e := ch.sw.Close(); err == nil {
		err = e
	}
	return err
}
