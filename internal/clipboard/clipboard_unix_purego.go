//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce sync.Once
	initErr  error
	owner    *x11Owner
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		o, err := newX11Owner()
		if err != nil {
			initErr = err
			return
		}
		owner = o
	})
	return initErr
}

// WriteImage publishes img as PNG.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return owner.offer(owner.atoms[atomPNG], data)
}

// ReadImage decodes the image currently on the clipboard.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := owner.request(owner.atoms[atomPNG])
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

// WriteText publishes UTF-8 text.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.offer(owner.atoms[atomUTF8], []byte(text))
}

// ReadText returns the text currently on the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := owner.request(owner.atoms[atomUTF8])
	if err != nil {
		if data, err = owner.request(xproto.AtomString); err != nil {
			return "", err
		}
	}
	// some owners terminate STRING replies with NUL
	if n := len(data); n > 0 && data[n-1] == 0 {
		data = data[:n-1]
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	return string(data), nil
}

const (
	atomClipboard = iota
	atomTargets
	atomUTF8
	atomTextPlain
	atomPNG
	atomProperty
	atomCount
)

var atomNames = [atomCount]string{
	atomClipboard: "CLIPBOARD",
	atomTargets:   "TARGETS",
	atomUTF8:      "UTF8_STRING",
	atomTextPlain: "text/plain;charset=utf-8",
	atomPNG:       "image/png",
	atomProperty:  "CHAMPIMARK_CLIPBOARD",
}

// x11Owner keeps a hidden window that owns CLIPBOARD while we have
// something on it and answers conversion requests from other clients.
type x11Owner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  [atomCount]xproto.Atom

	mu     sync.RWMutex
	target xproto.Atom
	data   []byte
}

func newX11Owner() (*x11Owner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	o := &x11Owner{conn: conn, window: window}
	for i, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			xproto.DestroyWindow(conn, window)
			conn.Close()
			return nil, fmt.Errorf("intern atom %s: %w", name, err)
		}
		o.atoms[i] = reply.Atom
	}
	go o.serve()
	return o, nil
}

func (o *x11Owner) offer(target xproto.Atom, data []byte) error {
	o.mu.Lock()
	o.target = target
	o.data = append([]byte(nil), data...)
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms[atomClipboard], xproto.TimeCurrentTime).Check()
}

func (o *x11Owner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.target, o.data = 0, nil
			o.mu.Unlock()
		}
	}
}

// targetsFor lists the conversions we can serve for the held content.
func (o *x11Owner) targetsFor(held xproto.Atom) []xproto.Atom {
	out := []xproto.Atom{o.atoms[atomTargets]}
	switch held {
	case o.atoms[atomUTF8]:
		out = append(out, o.atoms[atomUTF8], xproto.AtomString, o.atoms[atomTextPlain])
	case o.atoms[atomPNG]:
		out = append(out, o.atoms[atomPNG])
	}
	return out
}

func (o *x11Owner) answer(e xproto.SelectionRequestEvent) {
	o.mu.RLock()
	held, data := o.target, o.data
	o.mu.RUnlock()

	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}

	var (
		typ     xproto.Atom
		format  byte = 8
		payload []byte
		units   uint32
	)
	targets := o.targetsFor(held)
	switch {
	case e.Target == o.atoms[atomTargets]:
		typ, format = xproto.AtomAtom, 32
		payload = make([]byte, 4*len(targets))
		for i, a := range targets {
			xgb.Put32(payload[4*i:], uint32(a))
		}
		units = uint32(len(targets))
	case len(data) > 0 && contains(targets[1:], e.Target):
		typ, payload, units = held, data, uint32(len(data))
	default:
		prop = xproto.AtomNone
	}

	if prop != xproto.AtomNone {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, typ, format, units, payload)
	}
	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

func contains(list []xproto.Atom, a xproto.Atom) bool {
	for _, v := range list {
		if v == a {
			return true
		}
	}
	return false
}

// request converts the clipboard to target on a throwaway connection so the
// serving goroutine keeps its own event stream.
func (o *x11Owner) request(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	prop := o.atoms[atomProperty]
	if err := xproto.ConvertSelectionChecked(conn, window, o.atoms[atomClipboard], target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, ErrEmpty
		}
		if e.Property != prop {
			continue
		}
		reply, err := xproto.GetProperty(conn, true, window, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
