package converter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/logic-fault/arabidopsis-project/encoding/converter"
	"github.com/logic-fault/arabidopsis-project/encoding/gff3"
	"github.com/stretchr/testify/require"
)

const cpgisle = `ID   Chr1
XX
FT   CpG island       101..300
FT                    /GC content=0.62
FT                    /Sum C+G=124
FT   CpG island       1001..1250
FT   CpG island       2001..2200
FT                    /Sum C+G=99
//
ID   Chr2
FT   CpG island       5..60
`

func TestCpGIsleToGFF3(t *testing.T) {
	var buf bytes.Buffer
	w := gff3.NewWriter(&buf, true)
	n, err := converter.CpGIsleToGFF3(strings.NewReader(cpgisle), w)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.Equal(t, 4, n)
	require.Equal(t, `##gff-version 3
Chr1	.	CpGI	101	300	.	.	.	sumcg=124
Chr1	.	CpGI	1001	1250	.	.	.	.
Chr1	.	CpGI	2001	2200	.	.	.	sumcg=99
Chr2	.	CpGI	5	60	.	.	.	.
`, buf.String())
}

func TestIslandsToGFF3(t *testing.T) {
	var buf bytes.Buffer
	w := gff3.NewWriter(&buf, false)
	n, err := converter.IslandsToGFF3(strings.NewReader("isle1 1 100 200\n\nisle2 1 300\nisle3\t2\t5\t9\textra\n"), w, "Chr")
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.Equal(t, 2, n)
	require.Equal(t, "Chr1\t.\tCpGI\t100\t200\t.\t.\t.\tName=isle1\nChr2\t.\tCpGI\t5\t9\t.\t.\t.\tName=isle3\n", buf.String())
}

func TestJoinMethylationExpression(t *testing.T) {
	genes := "12.5, AT1G01010, CpGI_1\n3\tAT1G01020\tCpGI_9\n\n0.5 AT1G01030 CpGI_2 extra\nshort line\n"
	islands := "CpGI_1 0.25\nCpGI_2,0.75\nCpGI_1 9.0\n"
	var buf bytes.Buffer
	n, err := converter.JoinMethylationExpression(strings.NewReader(genes), strings.NewReader(islands), &buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "0.25\t12.5\n0.75\t0.5\n", buf.String())
}
