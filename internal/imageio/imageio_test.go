package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img.Set(1, 1, color.NRGBA{200, 10, 10, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestLoadDataURL(t *testing.T) {
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t))
	img, err := NewFetcher().Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestLoadFileAndFileURL(t *testing.T) {
	p := filepath.Join(t.TempDir(), "room.png")
	if err := os.WriteFile(p, testPNG(t), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFetcher()
	for _, src := range []string{p, "file://" + p} {
		if _, err := f.Load(context.Background(), src); err != nil {
			t.Fatalf("Load(%q): %v", src, err)
		}
	}
}

func TestLoadHTTP(t *testing.T) {
	data := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	f := NewFetcher(WithHTTPClient(srv.Client()))
	if _, err := f.Load(context.Background(), srv.URL+"/room.png"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := f.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetchErrors(t *testing.T) {
	f := NewFetcher(WithMaxBytes(10))
	if _, err := f.Fetch(context.Background(), "ftp://example.com/a.png"); err == nil {
		t.Error("expected unsupported scheme error")
	}
	if _, err := f.Fetch(context.Background(), "data:image/png;base64"); err == nil {
		t.Error("expected malformed data URL error")
	}
	big := "data:text/plain," + string(bytes.Repeat([]byte("x"), 11))
	if _, err := f.Fetch(context.Background(), big); !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
	if _, err := NewFetcher().Load(context.Background(), "data:text/plain,hello"); err == nil {
		t.Error("expected decode error for non-image data")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	for _, f := range []Format{PNG, JPEG, WebP} {
		var buf bytes.Buffer
		if err := Encode(&buf, src, f, EncodeOptions{Quality: 80, Lossless: true}); err != nil {
			t.Fatalf("%v: Encode: %v", f, err)
		}
		img, err := Decode(buf.Bytes())
		if err != nil {
			t.Fatalf("%v: Decode: %v", f, err)
		}
		if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
			t.Fatalf("%v: bounds = %v", f, img.Bounds())
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{"a.png": PNG, "b.JPG": JPEG, "c.jpeg": JPEG, "d.webp": WebP}
	for p, want := range cases {
		got, err := FormatFromPath(p)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %v, %v", p, got, err)
		}
	}
	if _, err := FormatFromPath("e.gif"); err == nil {
		t.Error("expected error for gif export")
	}
	if f, err := ParseFormat("JPG"); err != nil || f != JPEG {
		t.Errorf("ParseFormat(JPG) = %v, %v", f, err)
	}
}

func TestSave(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.png")
	if err := Save(p, image.NewRGBA(image.Rect(0, 0, 3, 3)), EncodeOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(data); err != nil {
		t.Fatalf("Decode saved file: %v", err)
	}
}
