package persons

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
	"github.com/a3tai/mcp-pdf-identity/internal/names"
	"github.com/a3tai/mcp-pdf-identity/internal/normalize"
	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

func nameAt(t *testing.T, text, name string, nth int) names.Candidate {
	t.Helper()
	from := 0
	for i := 0; ; i++ {
		idx := strings.Index(text[from:], name)
		require.GreaterOrEqual(t, idx, 0, "name %q not found", name)
		if i == nth {
			s := span.Span{Start: from + idx, End: from + idx + len(name)}
			return names.Candidate{Text: name, Span: s, Origin: names.OriginMixedCase}
		}
		from += idx + len(name)
	}
}

func extract(text string) []identifier.Candidate {
	return identifier.NewExtractor(identifier.DefaultConfig()).Extract(text)
}

func TestAggregate_EndToEnd(t *testing.T) {
	text := normalize.Text("ciudadano GARCÍA LÓPEZ JUAN CARLOS DNI 12345678 CUIL 20-12345678-1")
	doc := names.NewDocument(text)
	p := names.NewPipeline(names.DefaultConfig())

	recs := NewAggregator(DefaultConfig(), p).Aggregate(doc, p.Run(context.Background(), doc), extract(text), p.NameShapedRuns(doc))

	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, "García López Juan Carlos", r.Name)
	dni, ok := r.Value(identifier.DNI)
	require.True(t, ok)
	assert.Equal(t, "12345678", dni)
	cuil := r.Identifiers[identifier.CUIL]
	assert.Equal(t, "20123456781", cuil.Value)
	assert.False(t, cuil.Valid)
	assert.Equal(t, identifier.ReasonChecksum, cuil.Reason)
	_, ok = r.Value(identifier.CUIT)
	assert.False(t, ok)
	assert.Empty(t, r.Conflicts)
}

func TestAggregate_ConflictingValues(t *testing.T) {
	text := "Juan Perez DNI 12345678 y DNI 87654321"
	recs := NewAggregator(DefaultConfig(), nil).Aggregate(nil,
		[]names.Candidate{nameAt(t, text, "Juan Perez", 0)}, extract(text), nil)

	require.Len(t, recs, 1)
	dni, _ := recs[0].Value(identifier.DNI)
	assert.Equal(t, "12345678", dni)
	require.Len(t, recs[0].Conflicts, 1)
	assert.Equal(t, identifier.DNI, recs[0].Conflicts[0].Kind)
	assert.Equal(t, []string{"12345678", "87654321"}, recs[0].Conflicts[0].Values)
}

func TestAggregate_RepeatedValueIsNotAConflict(t *testing.T) {
	text := "Juan Perez DNI 12345678, DNI 12.345.678"
	recs := NewAggregator(DefaultConfig(), nil).Aggregate(nil,
		[]names.Candidate{nameAt(t, text, "Juan Perez", 0)}, extract(normalize.Text(text)), nil)

	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Conflicts)
}

func TestAggregate_WindowEndsAtNextName(t *testing.T) {
	text := "Juan Perez DNI 12345678 Ana Gomez DNI 23456789"
	cands := []names.Candidate{nameAt(t, text, "Ana Gomez", 0), nameAt(t, text, "Juan Perez", 0)}
	recs := NewAggregator(DefaultConfig(), nil).Aggregate(nil, cands, extract(text), nil)

	require.Len(t, recs, 2)
	assert.Equal(t, "Juan Perez", recs[0].Name)
	v, _ := recs[0].Value(identifier.DNI)
	assert.Equal(t, "12345678", v)
	assert.Equal(t, "Ana Gomez", recs[1].Name)
	v, _ = recs[1].Value(identifier.DNI)
	assert.Equal(t, "23456789", v)
}

func TestAggregate_WindowEndsAtNameShapedRun(t *testing.T) {
	text := "Juan Perez DNI 12345678 testigo Pedro Lopez DNI 23456789"
	run := nameAt(t, text, "Pedro Lopez", 0).Span
	recs := NewAggregator(DefaultConfig(), nil).Aggregate(nil,
		[]names.Candidate{nameAt(t, text, "Juan Perez", 0)}, extract(text), []span.Span{run})

	require.Len(t, recs, 2)
	assert.Equal(t, "Juan Perez", recs[0].Name)
	assert.Empty(t, recs[0].Conflicts)
	assert.True(t, recs[1].Orphan())
	v, _ := recs[1].Value(identifier.DNI)
	assert.Equal(t, "23456789", v)
}

func TestAggregate_LookAheadLimit(t *testing.T) {
	text := "Juan Perez vive en la ciudad de Goya desde hace años y su DNI 12345678"
	cfg := DefaultConfig()
	cfg.LookAhead = 20
	recs := NewAggregator(cfg, nil).Aggregate(nil,
		[]names.Candidate{nameAt(t, text, "Juan Perez", 0)}, extract(text), nil)

	require.Len(t, recs, 2)
	assert.Empty(t, recs[0].Identifiers)
	assert.True(t, recs[1].Orphan())
}

func TestAggregate_MergesReorderedName(t *testing.T) {
	text := "Juan Perez DNI 12345678 firmó. Luego Perez Juan CUIL 20123456786"
	cands := []names.Candidate{nameAt(t, text, "Juan Perez", 0), nameAt(t, text, "Perez Juan", 0)}
	recs := NewAggregator(DefaultConfig(), nil).Aggregate(nil, cands, extract(text), nil)

	require.Len(t, recs, 1)
	assert.Equal(t, "Juan Perez", recs[0].Name)
	assert.Len(t, recs[0].Mentions, 2)
	v, _ := recs[0].Value(identifier.CUIL)
	assert.Equal(t, "20123456786", v)
	assert.True(t, recs[0].Identifiers[identifier.CUIL].Valid)
}

func TestAggregate_SharedIdentifierKeepsLongerName(t *testing.T) {
	text := "Perez DNI 12345678 compareció. Luego Juan Carlos Perez DNI 12345678"
	cands := []names.Candidate{nameAt(t, text, "Perez", 0), nameAt(t, text, "Juan Carlos Perez", 0)}
	recs := NewAggregator(DefaultConfig(), nil).Aggregate(nil, cands, extract(text), nil)

	require.Len(t, recs, 1)
	assert.Equal(t, "Juan Carlos Perez", recs[0].Name)
	assert.Equal(t, []string{"Perez"}, recs[0].Aliases)
	assert.Empty(t, recs[0].Conflicts)
}

func TestAggregate_SharedIdentifierMergeDisabled(t *testing.T) {
	text := "Perez DNI 12345678 compareció. Luego Juan Carlos Perez DNI 12345678"
	cands := []names.Candidate{nameAt(t, text, "Perez", 0), nameAt(t, text, "Juan Carlos Perez", 0)}
	cfg := DefaultConfig()
	cfg.MergeSharedIdentifiers = false
	recs := NewAggregator(cfg, nil).Aggregate(nil, cands, extract(text), nil)

	assert.Len(t, recs, 2)
}

func TestAggregate_InvalidSharedIdentifierDoesNotMergeNames(t *testing.T) {
	text := "Ana Gomez CUIL 20123456781 y Juan Perez CUIL 20123456781"
	cands := []names.Candidate{nameAt(t, text, "Ana Gomez", 0), nameAt(t, text, "Juan Perez", 0)}
	recs := NewAggregator(DefaultConfig(), nil).Aggregate(nil, cands, extract(text), nil)

	assert.Len(t, recs, 2)
}

func TestAggregate_OrphanJoinsRecordWithSameValue(t *testing.T) {
	text := "Juan Perez DNI 12345678. Más adelante en el expediente se reitera el DNI 12345678"
	cfg := DefaultConfig()
	cfg.LookAhead = 30
	recs := NewAggregator(cfg, nil).Aggregate(nil,
		[]names.Candidate{nameAt(t, text, "Juan Perez", 0)}, extract(text), nil)

	require.Len(t, recs, 1)
	assert.Equal(t, "Juan Perez", recs[0].Name)
	assert.Empty(t, recs[0].Conflicts)
}

func TestAggregate_OrphanCUITRecoversEntityName(t *testing.T) {
	text := "la firma DISTRIBUIDORA DEL SUR S.A. CUIT 30123456781"
	doc := names.NewDocument(text)
	p := names.NewPipeline(names.DefaultConfig())

	recs := NewAggregator(DefaultConfig(), p).Aggregate(doc, nil, extract(text), nil)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Name, "Distribuidora Del Sur")
	assert.Equal(t, names.OriginEntity, recs[0].Mentions[0].Origin)
	assert.True(t, recs[0].Identifiers[identifier.CUIT].Valid)

	cfg := DefaultConfig()
	cfg.RecoverEntities = false
	recs = NewAggregator(cfg, p).Aggregate(doc, nil, extract(text), nil)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Orphan())
}
