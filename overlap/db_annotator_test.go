package overlap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/biogo/feat"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const islandDB = `CpGI_1	Chr1	40	60
CpGI_2	Chr1	480	520
CpGI_3	Chr1	2000	2100
CpGI_4	Chr2	100	200
`

func TestDBAnnotator(t *testing.T) {
	s := interval.NewSearch(interval.NewCursor(strings.NewReader(islandDB)))
	a := gene("Chr1", feat.Forward, 50, 70)
	b := gene("Chr1", feat.Reverse, 300, 510)
	// Its TSS lies in an island the database cursor has already passed.
	c := &feature.Composite{Children: []*feature.Feature{
		gene("Chr1", feat.Reverse, 300, 500),
		{SeqName: "Chr1", Type: "mRNA", FeatStart: 300, FeatEnd: 500},
	}}
	d := gene("Chr1", feat.Forward, 1000, 1500)
	isle := island("Chr2", 100, 200)
	e := gene("Chr2", feat.Forward, 150, 300)
	in := []feature.Node{a, b, c, d, isle, e}

	ann := NewDBAnnotator(feature.NewSliceStream(in), s, DefaultOpts)
	out, err := feature.Collect(ann)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	assert.Equal(t, "CpGI_1", attr(a, "cpgi_at_tss"))
	assert.Equal(t, "CpGI_2", attr(b, "cpgi_at_tss"))
	assert.Equal(t, "CpGI_2", attr(c.Children[0], "cpgi_at_tss"))
	_, ok := c.Children[1].FeatAttributes.Get("cpgi_at_tss")
	assert.False(t, ok)
	_, ok = d.FeatAttributes.Get("cpgi_at_tss")
	assert.False(t, ok)
	_, ok = isle.FeatAttributes.Get("cpgi_at_tss")
	assert.False(t, ok)
	assert.Equal(t, "CpGI_4", attr(e, "cpgi_at_tss"))
	assert.NoError(t, ann.Close(vcontext.Background()))
}

func TestOpenDBAnnotator(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)

	path := filepath.Join(tempDir, "islands.txt")
	require.NoError(t, os.WriteFile(path, []byte(islandDB), 0644))
	g := gene("Chr1", feat.Forward, 490, 900)
	ann, err := OpenDBAnnotator(ctx, feature.NewSliceStream([]feature.Node{g}), path, DefaultOpts)
	require.NoError(t, err)
	_, err = feature.Collect(ann)
	require.NoError(t, err)
	assert.Equal(t, "CpGI_2", attr(g, "cpgi_at_tss"))
	assert.NoError(t, ann.Close(ctx))

	_, err = OpenDBAnnotator(ctx, feature.NewSliceStream(nil), filepath.Join(tempDir, "missing.txt"), DefaultOpts)
	assert.Error(t, err)
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}
