package nexus

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuftsbcb/phylotree/config"
)

// nonSeekingReader hides any io.Seeker the underlying reader might
// implement (as *strings.Reader does), so tests can exercise the
// "source is not seekable" branch of the burn-in resolution.
type nonSeekingReader struct {
	io.Reader
}

const sampleNexus = `#NEXUS
BEGIN TAXA;
	DIMENSIONS NTAX=3;
	TAXLABELS A B C;
END;
BEGIN TREES;
	TRANSLATE
		1 A,
		2 B,
		3 C;
	TREE gen.1 = (1,2,3);
	TREE gen.2 = (1,(2,3));
	TREE gen.3 = ((1,2),3);
END;
`

func TestParseReaderEagerBasic(t *testing.T) {
	result, err := ParseReader(strings.NewReader(sampleNexus), config.Default())
	require.NoError(t, err)
	require.Len(t, result.Trees, 3)
	assert.Equal(t, 3, result.Table.Len())

	for _, tr := range result.Trees {
		assert.Equal(t, 3, tr.NumLeaves())
	}
}

func TestParseReaderSkipFirst(t *testing.T) {
	cfg := config.Default()
	cfg.SkipFirst = 2
	result, err := ParseReader(strings.NewReader(sampleNexus), cfg)
	require.NoError(t, err)
	assert.Len(t, result.Trees, 1)
}

func TestParseReaderSampleEvery(t *testing.T) {
	cfg := config.Default()
	cfg.SampleEvery = 2
	result, err := ParseReader(strings.NewReader(sampleNexus), cfg)
	require.NoError(t, err)
	assert.Len(t, result.Trees, 2)
}

func TestParseReaderMaxTrees(t *testing.T) {
	cfg := config.Default()
	cfg.MaxTrees = 1
	result, err := ParseReader(strings.NewReader(sampleNexus), cfg)
	require.NoError(t, err)
	assert.Len(t, result.Trees, 1)
}

func TestParseReaderLazyIteratorYieldsSameCountAsEager(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.Lazy
	result, err := ParseReader(strings.NewReader(sampleNexus), cfg)
	require.NoError(t, err)
	require.NotNil(t, result.Iterator)

	count := 0
	for {
		_, ok, err := result.Iterator.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 3, count)
}

func TestParseReaderNoTranslateUsesNamesDirectly(t *testing.T) {
	const src = `#NEXUS
BEGIN TREES;
	TREE only = (A,B,(C,D));
END;
`
	result, err := ParseReader(strings.NewReader(src), config.Default())
	require.NoError(t, err)
	require.Len(t, result.Trees, 1)
	assert.Equal(t, 4, result.Table.Len())
}

func TestParseReaderStrictTranslateRejectsUnresolvedLocalId(t *testing.T) {
	const src = `#NEXUS
BEGIN TREES;
	TRANSLATE 1 A, 2 B;
	TREE t = (1,2,3);
END;
`
	cfg := config.Default()
	cfg.StrictTranslate = true
	_, err := ParseReader(strings.NewReader(src), cfg)
	require.Error(t, err)
	_, ok := err.(*TranslateError)
	assert.True(t, ok)
}

func TestParseReaderNonStrictTranslateFallsBackToInterning(t *testing.T) {
	const src = `#NEXUS
BEGIN TREES;
	TRANSLATE 1 A, 2 B;
	TREE t = (1,2,3);
END;
`
	result, err := ParseReader(strings.NewReader(src), config.Default())
	require.NoError(t, err)
	require.Len(t, result.Trees, 1)
	assert.Equal(t, 3, result.Table.Len())
}

func TestParseReaderDuplicateTaxonInTaxlabels(t *testing.T) {
	const src = `#NEXUS
BEGIN TAXA;
	TAXLABELS A B A;
END;
`
	_, err := ParseReader(strings.NewReader(src), config.Default())
	require.Error(t, err)
	nerr, ok := err.(*NexusError)
	require.True(t, ok)
	assert.Equal(t, DuplicateTaxon, nerr.Kind)
}

func TestParseReaderSkipsUnknownBlock(t *testing.T) {
	const src = `#NEXUS
BEGIN CHARACTERS;
	anything at all goes here
	ntax=4 nchar=10;
END;
BEGIN TREES;
	TREE only = (A,B);
END;
`
	result, err := ParseReader(strings.NewReader(src), config.Default())
	require.NoError(t, err)
	assert.Len(t, result.Trees, 1)
}

func TestParseReaderMissingHeaderIsError(t *testing.T) {
	_, err := ParseReader(strings.NewReader("BEGIN TREES; END;"), config.Default())
	require.Error(t, err)
	nerr, ok := err.(*NexusError)
	require.True(t, ok)
	assert.Equal(t, MissingHeader, nerr.Kind)
}

func TestParseReaderBurninFractionWithHint(t *testing.T) {
	cfg := config.Default()
	cfg.BurninFraction = 0.5
	cfg.BurninTotalHint = 2
	result, err := ParseReader(strings.NewReader(sampleNexus), cfg)
	require.NoError(t, err)
	// floor(0.5*2) = 1 dropped, 2 remain
	assert.Len(t, result.Trees, 2)
}

func TestParseReaderBurninFractionWithoutHintOrSeekerIsUnknownTotal(t *testing.T) {
	cfg := config.Default()
	cfg.BurninFraction = 0.5
	_, err := ParseReader(nonSeekingReader{strings.NewReader(sampleNexus)}, cfg)
	require.Error(t, err)
	assert.Equal(t, config.ErrUnknownTotal, err)
}

func TestParseReaderBurninFractionSeekPrepassCountsTheFirstDeclaration(t *testing.T) {
	cfg := config.Default()
	cfg.BurninFraction = 1.0 / 3.0
	// sampleNexus has 3 TREE declarations. A pre-pass that undercounts
	// by missing the first declaration would see 2 and drop
	// floor(1/3*2)=0 trees instead of floor(1/3*3)=1.
	result, err := ParseReader(strings.NewReader(sampleNexus), cfg)
	require.NoError(t, err)
	assert.Len(t, result.Trees, 2)
}

func TestParseReaderBurninFractionSeekPrepassMatchesHintedTotal(t *testing.T) {
	hinted := config.Default()
	hinted.BurninFraction = 0.25
	hinted.BurninTotalHint = 3
	hintedResult, err := ParseReader(strings.NewReader(sampleNexus), hinted)
	require.NoError(t, err)

	seeked := config.Default()
	seeked.BurninFraction = 0.25
	seekedResult, err := ParseReader(strings.NewReader(sampleNexus), seeked)
	require.NoError(t, err)

	assert.Equal(t, len(hintedResult.Trees), len(seekedResult.Trees))
}

func TestParseReaderStrictModeRejectsUnknownTreesCommand(t *testing.T) {
	const src = `#NEXUS
BEGIN TREES;
	LINK TAXA = TaxaBlock;
	TREE only = (A,B);
END;
`
	cfg := config.Default()
	cfg.StrictTranslate = true
	_, err := ParseReader(strings.NewReader(src), cfg)
	require.Error(t, err)
	nerr, ok := err.(*NexusError)
	require.True(t, ok)
	assert.Equal(t, UnknownCommand, nerr.Kind)
}

func TestParseReaderNonStrictModeSkipsUnknownTreesCommand(t *testing.T) {
	const src = `#NEXUS
BEGIN TREES;
	LINK TAXA = TaxaBlock;
	TREE only = (A,B);
END;
`
	result, err := ParseReader(strings.NewReader(src), config.Default())
	require.NoError(t, err)
	assert.Len(t, result.Trees, 1)
}

func TestParseFileUsesMemMapFilesystem(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/trees.nex", []byte(sampleNexus), 0o644))

	result, err := ParseFile("/trees.nex", config.Default(), WithFilesystem(fs))
	require.NoError(t, err)
	assert.Len(t, result.Trees, 3)
}

func TestParseFileMissingFileWrapsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := ParseFile("/does-not-exist.nex", config.Default(), WithFilesystem(fs))
	require.Error(t, err)
}
