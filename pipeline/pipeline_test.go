package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const input = `##gff-version 3
Chr1	TAIR10	gene	50	70	.	+	.	ID=A;Name=A
Chr1	TAIR10	mRNA	50	70	.	+	.	ID=A.1;Parent=A
Chr1	.	CpGI	40	60	.	.	.	.
Chr1	TAIR10	gene	500	700	.	+	.	ID=B;Name=B
Chr1	.	CpGI	480	520	.	.	.	.
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(`
input = "in.gff3"
header = true

[[stage]]
  kind = "overlap"
  attr = "island"

[[stage]]
  kind = "expression"
  db = "rnaseq.tsv"
`)
	assert.NoError(t, err)
	expect.EQ(t, cfg, Config{
		Input:  "in.gff3",
		Header: true,
		Stages: []Stage{
			{Kind: KindOverlap, Attr: "island"},
			{Kind: KindExpression, DB: "rnaseq.tsv"},
		},
	})
	assert.NoError(t, cfg.Validate())
	expect.EQ(t, cfg.Stages[0].opts().AttrKey, "island")
	expect.EQ(t, cfg.Stages[0].opts().NamePrefix, "CpGI_")

	_, err = ParseConfig("input = \"x\"\nbogus = 1\n")
	expect.True(t, err != nil)
}

func TestValidate(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Input: "x", Stages: []Stage{{Kind: "sort"}}},
		{Input: "x", Stages: []Stage{{Kind: KindMethylation}}},
	} {
		expect.True(t, cfg.Validate() != nil, "%+v", cfg)
	}
}

func writeFile(t *testing.T, path, data string) {
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestRun(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)

	inPath := filepath.Join(tempDir, "in.gff3.gz")
	f, err := os.Create(inPath)
	assert.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(input))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, f.Close())

	methylome := filepath.Join(tempDir, "methylome.txt")
	writeFile(t, methylome, "1 45 10\n1 50 0.5\n1 500 10.25\n")
	expression := filepath.Join(tempDir, "rnaseq.tsv")
	writeFile(t, expression, "A\tleaf\t2\nA\troot\t3\n")
	configPath := filepath.Join(tempDir, "pipeline.toml")
	outPath := filepath.Join(tempDir, "out.gff3")
	writeFile(t, configPath, `
input = "`+inPath+`"
output = "`+outPath+`"

[[stage]]
  kind = "overlap"

[[stage]]
  kind = "methylation"
  db = "`+methylome+`"

[[stage]]
  kind = "expression"
  db = "`+expression+`"
`)

	cfg, err := LoadConfig(ctx, configPath)
	assert.NoError(t, err)
	assert.NoError(t, Run(ctx, cfg))

	got, err := os.ReadFile(outPath)
	assert.NoError(t, err)
	expect.EQ(t, string(got), `##gff-version 3
Chr1	TAIR10	gene	50	70	5	+	.	ID=A;Name=A;cpgi_at_tss=CpGI_1
Chr1	TAIR10	mRNA	50	70	.	+	.	ID=A.1;Parent=A
Chr1	.	CpGI	40	60	0.5	.	.	Name=CpGI_1
Chr1	TAIR10	gene	500	700	0	+	.	ID=B;Name=B;cpgi_at_tss=CpGI_2
Chr1	.	CpGI	480	520	0.25	.	.	Name=CpGI_2
`)
}

func TestRunOverlapDB(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)

	inPath := filepath.Join(tempDir, "genes.gff3")
	writeFile(t, inPath, "Chr1\t.\tgene\t10\t30\t.\t-\t.\tID=G1\nChr2\t.\tgene\t10\t30\t.\t+\t.\tID=G2\n")
	dbPath := filepath.Join(tempDir, "islands.txt")
	writeFile(t, dbPath, "isle1 1 25 35\nisle2 2 1 5\n")
	outPath := filepath.Join(tempDir, "out.gff3")
	cfg := Config{
		Input:  inPath,
		Output: outPath,
		Header: true,
		Stages: []Stage{{Kind: KindOverlapDB, DB: dbPath, Attr: "island"}},
	}
	assert.NoError(t, Run(ctx, cfg))
	got, err := os.ReadFile(outPath)
	assert.NoError(t, err)
	expect.EQ(t, string(got), "##gff-version 3\nChr1\t.\tgene\t10\t30\t.\t-\t.\tID=G1;island=isle1\nChr2\t.\tgene\t10\t30\t.\t+\t.\tID=G2\n")

	cfg.Stages[0].DB = filepath.Join(tempDir, "missing.txt")
	err = Run(ctx, cfg)
	expect.True(t, err != nil && strings.Contains(err.Error(), "missing.txt"), "got %v", err)
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}
