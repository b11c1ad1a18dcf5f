package session

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fulmenhq/svgaudit/pkg/catalog"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const treeJSON = `{
  "HR": {
    "Leave": {
      "Approved": {"img": "bg1.svg", "text": "Nothing to approve"},
      "Rejected": {"img": "bg3.svg", "para": "No rejected requests"}
    }
  },
  "Profile": {
    "Avatar": {"img": "bg3.svg"}
  }
}`

func mustTree(t *testing.T) *usagetree.Branch {
	t.Helper()
	root, err := usagetree.Parse([]byte(treeJSON))
	require.NoError(t, err)
	return root
}

func svgDoc(w, h string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" width="` + w + `" height="` + h + `"/>`
}

func TestOpenWaitsForBothSources(t *testing.T) {
	root := mustTree(t)
	started := make(chan struct{})
	tree := func(ctx context.Context) (*usagetree.Branch, error) {
		select {
		case <-started:
		case <-time.After(time.Second):
			return nil, errors.New("listing never started")
		}
		time.Sleep(10 * time.Millisecond)
		return root, nil
	}
	listing := func(ctx context.Context) ([]string, error) {
		close(started)
		return []string{"bg1.svg", "bg2.svg", "bg3.svg"}, nil
	}

	s := Open(context.Background(), tree, listing, Options{})
	require.NoError(t, s.LoadError())
	assert.Equal(t, []string{"bg1.svg", "bg2.svg", "bg3.svg"}, s.Names())
	assert.Len(t, s.Usage("bg3.svg"), 2)
	assert.Equal(t, DefaultOptions(), s.Options())
}

func TestOpenRecordsFailedSources(t *testing.T) {
	treeErr := errors.New("bad json")
	tests := []struct {
		name           string
		tree           TreeSource
		listing        ListingSource
		treeFailed     bool
		listFailed     bool
		wantAssets     int
		wantCategories int
	}{
		{
			name:       "tree fails",
			tree:       func(context.Context) (*usagetree.Branch, error) { return nil, treeErr },
			listing:    StaticListing([]string{"bg1.svg"}),
			treeFailed: true,
			wantAssets: 1,
		},
		{
			name:           "listing fails",
			tree:           StaticTree(mustTree(t)),
			listing:        func(context.Context) ([]string, error) { return nil, fs.ErrNotExist },
			listFailed:     true,
			wantCategories: 2,
		},
		{
			name:       "both missing",
			treeFailed: true,
			listFailed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(context.Background(), tt.tree, tt.listing, Options{})
			err := s.LoadError()
			require.Error(t, err)

			assert.Equal(t, tt.treeFailed, errors.Is(err, ErrTreeUnavailable))
			assert.Equal(t, tt.listFailed, errors.Is(err, ErrCatalogUnavailable))
			if tt.treeFailed && tt.tree != nil {
				assert.ErrorIs(t, err, treeErr)
			}

			assert.Len(t, s.Names(), tt.wantAssets)
			require.NotNil(t, s.Tree())
			assert.Equal(t, tt.wantCategories, s.Tree().Len())
		})
	}
}

func TestRequire(t *testing.T) {
	s := Open(context.Background(),
		func(context.Context) (*usagetree.Branch, error) { return nil, errors.New("boom") },
		StaticListing([]string{"bg1.svg"}),
		Options{})

	assert.NoError(t, s.Require(false, true))
	assert.ErrorIs(t, s.Require(true, false), ErrTreeUnavailable)
	assert.ErrorIs(t, s.Require(true, true), ErrTreeUnavailable)

	ok := New(mustTree(t), nil, Options{})
	assert.NoError(t, ok.Require(true, true))
}

func TestEmptySession(t *testing.T) {
	s := New(nil, nil, Options{})
	assert.Zero(t, s.Tree().Len())
	assert.Empty(t, s.SearchLeaves("anything"))
	assert.Empty(t, s.Usage("bg1.svg"))

	r := s.Report()
	assert.Equal(t, 0, r.Assets)
	assert.Equal(t, 0, r.SequenceEnd)
	assert.NotNil(t, r.Missing)
	assert.NotNil(t, r.Unused)
	assert.Empty(t, s.Gallery(reconcile.NewFilter()))
}

func TestSearch(t *testing.T) {
	s := New(mustTree(t), nil, Options{})
	assert.Same(t, s.Tree(), s.Search(""))
	assert.Same(t, s.Tree(), s.Search("   "))

	leaves := s.SearchLeaves("leave rejected")
	require.Len(t, leaves, 1)
	assert.Equal(t, "HR > Leave > Rejected", leaves[0].Path.String())

	assert.Empty(t, s.SearchLeaves("payroll"))
}

func TestEditReindexes(t *testing.T) {
	s := New(mustTree(t), []string{"bg1.svg", "bg2.svg", "bg3.svg"}, Options{})
	require.Len(t, s.Usage("bg1.svg"), 1)
	require.Empty(t, s.Usage("bg2.svg"))
	assert.False(t, s.Dirty())

	path := usagetree.ParsePath("HR > Leave > Approved")
	require.NoError(t, s.SetField(path, usagetree.FieldImg, "bg2.svg"))

	assert.Empty(t, s.Usage("bg1.svg"))
	assert.Len(t, s.Usage("bg2.svg"), 1)
	assert.True(t, s.Dirty())
	assert.Equal(t, []string{"bg1.svg"}, s.Report().Unused)

	err := s.SetField(usagetree.ParsePath("HR > Leave"), usagetree.FieldText, "x")
	assert.ErrorIs(t, err, usagetree.ErrNotLeaf)

	err = s.SetField(path, usagetree.FieldImg, "")
	assert.ErrorIs(t, err, usagetree.ErrEmptyImage)
}

func TestSaveClearsDirty(t *testing.T) {
	s := New(mustTree(t), nil, Options{})
	path := usagetree.ParsePath("Profile > Avatar")
	require.NoError(t, s.SetField(path, usagetree.FieldText, "Upload a photo"))
	require.True(t, s.Dirty())

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	assert.False(t, s.Dirty())

	reloaded, err := usagetree.Parse(buf.Bytes())
	require.NoError(t, err)
	n, err := usagetree.Resolve(reloaded, path)
	require.NoError(t, err)
	assert.Equal(t, "Upload a photo", n.(*usagetree.Leaf).Text)
}

func TestReport(t *testing.T) {
	s := New(mustTree(t), []string{"bg1.svg", "bg2.svg", "bg4.svg", "filter.svg"}, Options{})

	_, err := s.ApplyDimensions("bg1.svg", reconcile.Dimensions{Width: 196, Height: 121})
	require.NoError(t, err)
	_, err = s.ApplyDimensions("bg2.svg", reconcile.Dimensions{Width: 200, Height: 121})
	require.NoError(t, err)

	r := s.Report()
	assert.Equal(t, 4, r.Assets)
	assert.Equal(t, 2, r.Referenced)
	assert.Equal(t, 4, r.SequenceEnd)
	assert.Equal(t, []int{3}, r.Missing)
	assert.Equal(t, []string{"bg3.svg"}, r.MissingFile)
	assert.Equal(t, []string{"bg2.svg", "bg4.svg", "filter.svg"}, r.Unused)
	assert.Equal(t, []reconcile.Measured{
		{Name: "bg2.svg", Dimensions: reconcile.Dimensions{Width: 200, Height: 121}},
	}, r.Incorrect)
	assert.Equal(t, []string{"bg4.svg", "filter.svg"}, r.Pending)
	assert.Equal(t, reconcile.DefaultExpected, r.Expected)
}

func TestApplyDimensions(t *testing.T) {
	s := New(mustTree(t), []string{"bg1.svg", "bg3.svg"}, Options{})
	assert.Equal(t, reconcile.DimensionsPending, s.Class("bg1.svg"))

	class, err := s.ApplyDimensions("bg1.svg", reconcile.Dimensions{Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, reconcile.DimensionsIncorrect, class)

	again, err := s.ApplyDimensions("bg1.svg", reconcile.Dimensions{Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, class, again)
	assert.Len(t, s.Report().Incorrect, 1)

	class, err = s.ApplyDimensions("bg1.svg", reconcile.DefaultExpected)
	require.NoError(t, err)
	assert.Equal(t, reconcile.DimensionsCorrect, class)
	assert.Equal(t, reconcile.DimensionsPending, s.Class("bg3.svg"))

	_, err = s.ApplyDimensions("nope.svg", reconcile.DefaultExpected)
	assert.ErrorIs(t, err, catalog.ErrUnknownAsset)
}

func TestConcurrentApplyAndRead(t *testing.T) {
	names := []string{"bg1.svg", "bg2.svg", "bg3.svg"}
	s := New(mustTree(t), names, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for _, n := range names {
				_, _ = s.ApplyDimensions(n, reconcile.DefaultExpected)
			}
		}()
		go func() {
			defer wg.Done()
			_ = s.Report()
			_ = s.Gallery(reconcile.NewFilter())
		}()
	}
	wg.Wait()
	assert.Empty(t, s.Report().Pending)
}

func TestGallery(t *testing.T) {
	s := New(mustTree(t), []string{"bg1.svg", "bg2.svg", "bg3.svg"}, Options{})
	_, err := s.ApplyDimensions("bg3.svg", reconcile.DefaultExpected)
	require.NoError(t, err)

	all := s.Gallery(reconcile.NewFilter())
	require.Len(t, all, 3)
	assert.Equal(t, "bg1.svg", all[0].Name)
	assert.True(t, all[0].Used)
	assert.Equal(t, "pending", all[0].Class)
	assert.Nil(t, all[0].Dimensions)
	assert.Equal(t, []string{"HR > Leave > Approved"}, all[0].Breadcrumbs)
	assert.False(t, all[1].Used)
	assert.Empty(t, all[1].Breadcrumbs)
	require.NotNil(t, all[2].Dimensions)
	assert.Equal(t, reconcile.DefaultExpected, *all[2].Dimensions)

	tests := []struct {
		name   string
		filter func() reconcile.Filter
		want   []string
	}{
		{"unused only", func() reconcile.Filter {
			f := reconcile.NewFilter()
			f.Usage = reconcile.UsageUnused
			return f
		}, []string{"bg2.svg"}},
		{"correct only", func() reconcile.Filter {
			f := reconcile.NewFilter()
			f.Incorrect = false
			return f
		}, []string{"bg3.svg"}},
		{"profile category", func() reconcile.Filter {
			return reconcile.NewFilter("profile")
		}, []string{"bg2.svg", "bg3.svg"}},
		{"nothing", func() reconcile.Filter {
			f := reconcile.NewFilter()
			f.Correct, f.Incorrect = false, false
			return f
		}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.filter()
			got := []string{}
			for _, item := range s.Gallery(f) {
				got = append(got, item.Name)
				assert.True(t, s.Visible(item.Name, f))
			}
			assert.Equal(t, tt.want, got)
		})
	}

	crumbs := s.Breadcrumbs("bg3.svg", reconcile.NewFilter("profile"))
	require.Len(t, crumbs, 1)
	assert.Equal(t, "Profile > Avatar", crumbs[0].String())
}

func TestMeasure(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "img/bg1.svg", []byte(svgDoc("196", "121")), 0o644))
	require.NoError(t, util.WriteFile(fsys, "img/bg2.svg", []byte(svgDoc("50", "50")), 0o644))
	require.NoError(t, util.WriteFile(fsys, "img/bg3.svg", []byte("<svg"), 0o644))

	s := New(mustTree(t), []string{"bg1.svg", "bg2.svg", "bg3.svg"}, Options{})
	require.NoError(t, s.Measure(context.Background(), fsys, "img", 2))

	assert.Equal(t, reconcile.DimensionsCorrect, s.Class("bg1.svg"))
	assert.Equal(t, reconcile.DimensionsIncorrect, s.Class("bg2.svg"))
	assert.Equal(t, reconcile.DimensionsPending, s.Class("bg3.svg"))
	assert.Equal(t, []string{"bg3.svg"}, s.Report().Pending)
}

func TestLoaders(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "data/image-data.json", []byte(treeJSON), 0o644))
	require.NoError(t, util.WriteFile(fsys, "img/bg2.svg", nil, 0o644))
	require.NoError(t, util.WriteFile(fsys, "img/bg1.svg", nil, 0o644))

	opts := catalog.DiscoverOptions{Include: []string{"*.svg"}, Sequence: reconcile.DefaultSequence()}
	ctx := context.Background()

	t.Run("tree from file", func(t *testing.T) {
		root, err := TreeFromFile(fsys, "data/image-data.json")(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"HR", "Profile"}, root.Keys())

		_, err = TreeFromFile(fsys, "data/missing.json")(ctx)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("missing file list scans folder", func(t *testing.T) {
		names, err := ListingFromFileList(fsys, "img/file-list.json", "img", opts)(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"bg1.svg", "bg2.svg"}, names)
	})

	t.Run("file list wins", func(t *testing.T) {
		fl := catalog.NewFileList([]string{"bg9.svg"}, time.Now())
		require.NoError(t, catalog.WriteFileList(fsys, "img/file-list.json", fl))
		names, err := ListingFromFileList(fsys, "img/file-list.json", "img", opts)(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"bg9.svg"}, names)
	})

	t.Run("invalid file list scans folder", func(t *testing.T) {
		require.NoError(t, util.WriteFile(fsys, "img/broken.json", []byte(`{"count":1}`), 0o644))
		names, err := ListingFromFileList(fsys, "img/broken.json", "img", opts)(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"bg1.svg", "bg2.svg"}, names)
	})

	t.Run("open from files", func(t *testing.T) {
		s := Open(ctx, TreeFromFile(fsys, "data/image-data.json"),
			ListingFromFileList(fsys, "img/none.json", "img", opts), Options{})
		require.NoError(t, s.LoadError())
		assert.Equal(t, []string{"bg2.svg"}, s.Report().Unused)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := TreeFromFile(fsys, "data/image-data.json")(cctx)
		assert.ErrorIs(t, err, context.Canceled)
		_, err = ListingFromFileList(fsys, "img/file-list.json", "img", opts)(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
