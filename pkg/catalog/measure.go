package catalog

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder for image.DecodeConfig
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/svgaudit/pkg/logger"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
)

// MeasureSVG reads the intrinsic size of an SVG document from the width and
// height attributes of its root element. Lengths may be unitless or in px.
// When either is missing or uses another unit the viewBox size is used.
func MeasureSVG(r io.Reader) (reconcile.Dimensions, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return reconcile.Dimensions{}, fmt.Errorf("SVG is not well-formed: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return reconcile.Dimensions{}, fmt.Errorf("%w: root element is not <svg>", ErrNoDimensions)
	}

	w, wok := parseLength(root.SelectAttrValue("width", ""))
	h, hok := parseLength(root.SelectAttrValue("height", ""))
	if wok && hok {
		return reconcile.Dimensions{Width: w, Height: h}, nil
	}

	vw, vh, ok := parseViewBox(root.SelectAttrValue("viewBox", ""))
	if !ok {
		return reconcile.Dimensions{}, fmt.Errorf("%w: no width/height or viewBox", ErrNoDimensions)
	}
	d := reconcile.Dimensions{Width: vw, Height: vh}
	// a single explicit length still wins for its own axis
	if wok {
		d.Width = w
	}
	if hok {
		d.Height = h
	}
	return d, nil
}

func parseLength(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func parseViewBox(s string) (int, int, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' })
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, wok := parseLength(fields[2])
	h, hok := parseLength(fields[3])
	return w, h, wok && hok
}

// MeasurePNG reads the size from the PNG header without decoding pixels.
func MeasurePNG(r io.Reader) (reconcile.Dimensions, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return reconcile.Dimensions{}, fmt.Errorf("%w: %v", ErrNoDimensions, err)
	}
	return reconcile.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// Measure opens name on fsys and measures it according to its extension.
func Measure(fsys billy.Filesystem, name string) (reconcile.Dimensions, error) {
	var measure func(io.Reader) (reconcile.Dimensions, error)
	switch strings.ToLower(path.Ext(name)) {
	case ".svg":
		measure = MeasureSVG
	case ".png":
		measure = MeasurePNG
	default:
		return reconcile.Dimensions{}, fmt.Errorf("%w: unsupported image type %q", ErrNoDimensions, path.Ext(name))
	}

	f, err := fsys.Open(name)
	if err != nil {
		return reconcile.Dimensions{}, err
	}
	defer func() { _ = f.Close() }()

	d, err := measure(f)
	if err != nil {
		return reconcile.Dimensions{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// Result is the outcome of measuring one asset.
type Result struct {
	Name       string
	Dimensions reconcile.Dimensions
	Err        error
}

// MeasureAll measures names, relative to dir on fsys, with at most workers
// in flight. onResult is called once per asset as soon as it is measured;
// calls are serialized, so onResult needs no locking of its own. A failed
// measurement is reported through Result.Err and does not stop the others.
// The returned error is the context's, if it was cancelled.
func MeasureAll(ctx context.Context, fsys billy.Filesystem, dir string, names []string, workers int, onResult func(Result)) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for _, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := Measure(fsys, fsys.Join(dir, name))
			if err != nil {
				logger.Debug("Measurement failed", logger.String("asset", name), logger.Err(err))
			}
			mu.Lock()
			defer mu.Unlock()
			if onResult != nil {
				onResult(Result{Name: name, Dimensions: d, Err: err})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
