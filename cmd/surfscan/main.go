package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/device"
	"github.com/mastercactapus/surfscan/machine"
)

func main() {
	log.SetFlags(log.Lshortfile)

	mode := flag.String("mode", "serial", "Probe connection mode: serial, relay, sim, or serve.")
	printer := flag.String("printer", "/dev/ttyACM0", "Serial port of the printer board.")
	baud := flag.Int("baud", 115200, "Baud rate of the printer board.")
	swPort := flag.String("switch", "/dev/ttyUSB0", "Serial port the probe switch is wired to.")
	relayURL := flag.String("relay", "ws://probe-bridge:9092/ws", "Websocket URL of the relay to use (relay mode).")
	addr := flag.String("addr", ":9091", "Address to bind the scan server to.")
	dir := flag.String("dir", "./data", "Data directory for emitted models.")
	flag.Parse()

	var ch device.Channel
	var err error
	switch *mode {
	case "serial", "serve":
		ch, err = device.OpenSerial(device.SerialConfig{
			Printer: *printer,
			Baud:    *baud,
			Switch:  *swPort,
		})
	case "relay":
		ch, err = device.DialRelay(*relayURL)
	case "sim":
		ch = device.NewSimChannel(coord.Point{Y: 180}, nil)
	default:
		log.Fatalf("unknown mode '%s'", *mode)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer ch.Close()

	if *mode == "serve" {
		relay := device.NewRelayServer(ch)
		log.Println("Relaying probe hardware on", *addr)
		err = http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
			relay.ServeHTTP(w, req)
		}))
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	m := machine.New(ch)
	err = m.Init()
	if err != nil {
		log.Fatal(err)
	}

	api := newAPI(m, *dir)

	err = http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		log.Fatal(err)
	}
}
