package main

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/jasonwbarnett/fileserver"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/gcode"
	"github.com/mastercactapus/surfscan/machine"
	"github.com/mastercactapus/surfscan/scad"
	"github.com/mastercactapus/surfscan/surface"
)

type api struct {
	http.Handler
	m       Machine
	dataDir string
	sse     *sse.Server

	mx     sync.Mutex
	cancel context.CancelFunc
}

type scanRequest struct {
	Name      string      `json:"name"`
	Start     coord.Point `json:"start"`
	End       coord.Point `json:"end"`
	StepX     float64     `json:"stepX"`
	StepZ     float64     `json:"stepZ"`
	Clearance *float64    `json:"clearance"`
	Thickness float64     `json:"thickness"`
	Fill      bool        `json:"fill"`
}

type scanResponse struct {
	File    string `json:"file"`
	Points  int    `json:"points"`
	Invalid int    `json:"invalid"`
	Filled  int    `json:"filled"`
}

func newAPI(m Machine, dir string) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		m:       m,
		dataDir: dir,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	fs := fileserver.New(http.Dir(dir))
	r.PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case "GET":
			fs.ServeHTTP(w, req)
		case "PUT":
			a.putFile(w, req)
		case "DELETE":
			a.deleteFile(w, req)
		default:
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})))

	r.HandleFunc("/api/scan", a.scan).Methods("POST")
	r.HandleFunc("/api/run", a.run).Methods("POST")
	r.HandleFunc("/api/jog", a.jog).Methods("POST")
	r.HandleFunc("/api/stop", a.stop).Methods("POST")

	r.PathPrefix("/events/").Handler(a.sse)
	go func() {
		for p := range m.Progress() {
			data, err := json.Marshal(p)
			if err != nil {
				log.Printf("ERROR: marshal json: %+v", err)
				continue
			}
			a.sse.SendMessage("/events/progress", sse.SimpleMessage(string(data)))
		}
	}()

	return a
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := base
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

// acquire reserves the machine for a single scan.
func (a *api) acquire(cancel context.CancelFunc) bool {
	a.mx.Lock()
	defer a.mx.Unlock()
	if a.cancel != nil {
		return false
	}
	a.cancel = cancel
	return true
}

func (a *api) release() {
	a.mx.Lock()
	a.cancel = nil
	a.mx.Unlock()
}

func (a *api) scan(w http.ResponseWriter, req *http.Request) {
	var sr scanRequest
	err := json.NewDecoder(req.Body).Decode(&sr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opt := machine.ScanOptions{
		Start: sr.Start,
		End:   sr.End,
		StepX: sr.StepX,
		StepZ: sr.StepZ,
		Name:  sr.Name,
	}
	if sr.Clearance != nil {
		opt.Clearance = *sr.Clearance
		opt.HasClearance = true
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	if !a.acquire(cancel) {
		http.Error(w, "scan in progress", http.StatusConflict)
		return
	}
	defer a.release()

	os.MkdirAll(a.dataDir, 0755)
	rec := scad.NewEmitter(a.dataDir, sr.Name, sr.Thickness)

	err = a.m.Scan(ctx, opt, rec)
	if err != nil {
		log.Printf("ERROR: scan '%s': %+v", sr.Name, err)
		http.Error(w, err.Error(), 500)
		return
	}

	resp := scanResponse{
		File:    filepath.Base(rec.Path()),
		Points:  len(rec.Grid().Points),
		Invalid: rec.Invalid(),
	}
	if sr.Fill && rec.Invalid() > 0 {
		resp.Filled, err = surface.FillInvalid(rec.Grid())
		if err != nil {
			log.Printf("ERROR: fill '%s': %+v", sr.Name, err)
		} else if err = rec.Flush(); err != nil {
			log.Printf("ERROR: rewrite '%s': %+v", sr.Name, err)
			http.Error(w, err.Error(), 500)
			return
		}
	}

	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) run(w http.ResponseWriter, req *http.Request) {
	err := a.m.Run(gcode.NewParser(req.Body))
	if err != nil {
		log.Printf("ERROR: run: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) jog(w http.ResponseWriter, req *http.Request) {
	var p coord.Point
	err := json.NewDecoder(req.Body).Decode(&p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = a.m.MoveTo(p)
	if err != nil {
		log.Printf("ERROR: jog to %s: %+v", p, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) stop(w http.ResponseWriter, req *http.Request) {
	a.mx.Lock()
	cancel := a.cancel
	a.mx.Unlock()
	if cancel == nil {
		http.Error(w, "no scan in progress", http.StatusConflict)
		return
	}
	cancel()
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	os.MkdirAll(filepath.Dir(name), 0755)
	f, err := os.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
