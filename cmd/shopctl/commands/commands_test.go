package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func TestLoadCatalog_YAML(t *testing.T) {
	c, err := loadCatalog(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	require.Len(t, c.products, 4)

	got, err := c.GetCandidates(context.Background(), "r1")
	require.NoError(t, err)
	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	// sorted by id, out of stock dropped, unscoped records shared
	assert.Equal(t, []string{"bed", "sofa-beige", "sofa-grey"}, ids)

	bed := got[0]
	assert.Equal(t, "5 ans", bed.ExtraAttributes[model.ExtraWarranty])
	assert.NotContains(t, bed.ExtraAttributes, "internal_sku")
}

func TestLoadCatalog_JSONScopesRetailer(t *testing.T) {
	c, err := loadCatalog(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)

	got, err := c.GetCandidates(context.Background(), "r2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "chair", got[0].ID)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := loadCatalog(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = loadCatalog(bad)
	assert.ErrorContains(t, err, "bad.json")
}

func TestParseTurns(t *testing.T) {
	turns, err := parseTurns([]string{"user: un canapé", "assistant:Voici nos canapés"})
	require.NoError(t, err)
	assert.Equal(t, []model.ConversationTurn{
		{Role: "user", Content: "un canapé"},
		{Role: "assistant", Content: "Voici nos canapés"},
	}, turns)

	_, err = parseTurns([]string{"system: hi"})
	assert.Error(t, err)
	_, err = parseTurns([]string{"no separator"})
	assert.Error(t, err)
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestExtractCommand(t *testing.T) {
	out := execute(t, "extract", "--offline", "canapé", "beige", "sous", "900€")

	var intent model.SearchIntent
	require.NoError(t, json.Unmarshal([]byte(out), &intent))
	assert.Equal(t, model.IntentProductSearch, intent.IntentType)
	assert.Equal(t, "canapé", intent.TargetCategory)
	assert.Equal(t, []string{"beige"}, intent.TargetColors)
	require.NotNil(t, intent.PriceConstraint)
	require.NotNil(t, intent.PriceConstraint.Max)
	assert.Equal(t, 900.0, *intent.PriceConstraint.Max)
	assert.Equal(t, model.SourceFallback, intent.Source)
}

func TestRankCommand_JSON(t *testing.T) {
	out := execute(t, "rank", "--offline", "--json", "--retailer", "r1",
		"--catalog", filepath.Join("testdata", "catalog.yaml"), "canapé beige sous 900€")

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "sofa-beige", resp.Products[0].ID)
	assert.Equal(t, 84, resp.Products[0].RelevanceScore)
	assert.Equal(t, 1, resp.TotalFound)
}

func TestRankCommand_Table(t *testing.T) {
	out := execute(t, "rank", "--offline", "--json=false", "--retailer", "r1",
		"--catalog", filepath.Join("testdata", "catalog.yaml"), "un", "lit")

	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "bed")
	assert.NotContains(t, out, "sofa-beige")
}
