package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/models"
)

// embeddedMapFS copies the embedded catalog so a test can break one file
func embeddedMapFS(t *testing.T) fstest.MapFS {
	t.Helper()
	sub, err := fs.Sub(embeddedFS, "catalog")
	require.NoError(t, err)

	files, err := fs.Glob(sub, "*.yaml")
	require.NoError(t, err)

	m := fstest.MapFS{}
	for _, f := range files {
		data, err := fs.ReadFile(sub, f)
		require.NoError(t, err)
		m[f] = &fstest.MapFile{Data: data}
	}
	return m
}

func TestLoadEmbedded(t *testing.T) {
	catalog, err := LoadEmbedded()
	require.NoError(t, err)

	require.Len(t, catalog.Trees, 2)
	en := catalog.Trees[models.LanguageEN]
	ru := catalog.Trees[models.LanguageRU]
	require.NotNil(t, en)
	require.NotNil(t, ru)

	assert.Empty(t, en.MissingFields())
	assert.Empty(t, ru.MissingFields())
	assert.Equal(t, "Artem Akopian", en.Name)
	assert.Equal(t, "Артем Акопян", ru.Name)
	assert.Equal(t, "Связаться", ru.Nav.ContactBtn)

	require.Len(t, en.Projects.Items, 8)
	assert.Len(t, ru.Projects.Items, len(en.Projects.Items))
	assert.Len(t, catalog.Profile.ProjectImages, len(en.Projects.Items))
	assert.Empty(t, catalog.AssetProblems())

	tiger := en.Projects.Items[5]
	assert.Equal(t, "Tiger de Cristal", tiger.Title)
	require.NotNil(t, tiger.Link)
	assert.Nil(t, en.Projects.Items[2].Stats)
	require.NotNil(t, en.Projects.Items[0].Stats)

	assert.Equal(t, "https://instagram.com/yourhandle", catalog.Profile.Links.Instagram)
	assert.NotEmpty(t, catalog.Profile.Skills)
	assert.NotEmpty(t, catalog.Profile.Companies)
}

func TestLoadEmbedded_Riddles(t *testing.T) {
	catalog, err := LoadEmbedded()
	require.NoError(t, err)

	require.Len(t, catalog.Riddles, 5)
	byID := make(map[string]*models.Riddle)
	for _, r := range catalog.Riddles {
		byID[r.ID] = r
		assert.NotEmpty(t, r.Code)
		require.NotEmpty(t, r.Answers)
		for _, a := range r.Answers {
			assert.True(t, r.Accepts(gate.Normalize(a)), "%s: answer %q must accept itself", r.ID, a)
			assert.Equal(t, a, gate.Normalize(a), "%s: answers are stored normalized", r.ID)
		}
		assert.False(t, r.Accepts(""), "%s accepts the empty answer", r.ID)
	}

	assert.Equal(t, []string{"2"}, byID["array-copy"].Answers)
	assert.Equal(t, []string{"1 2", "1 and 2"}, byID["capture-list"].Answers)
	assert.Equal(t, []string{"3 2 1", "321"}, byID["defer-order"].Answers)
}

func TestLoad_EmptyDirUsesEmbedded(t *testing.T) {
	catalog, err := Load("")
	require.NoError(t, err)
	assert.Len(t, catalog.Riddles, 5)
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	for name, f := range embeddedMapFS(t) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0o644))
	}

	catalog, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Len(t, catalog.Trees, 2)
}

func TestLoadFromFS_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m fstest.MapFS)
		wantErr string
	}{
		{
			name:    "no files",
			mutate:  func(m fstest.MapFS) { clear(m) },
			wantErr: "no catalog files found",
		},
		{
			name:    "missing language",
			mutate:  func(m fstest.MapFS) { delete(m, "en.yaml") },
			wantErr: "language en is missing",
		},
		{
			name: "untranslated field",
			mutate: func(m fstest.MapFS) {
				m["en.yaml"] = &fstest.MapFile{Data: []byte("language: en\nname: X\n")}
			},
			wantErr: "en: challenge.submit is empty",
		},
		{
			name: "unsupported language",
			mutate: func(m fstest.MapFS) {
				m["de.yaml"] = &fstest.MapFile{Data: []byte("language: de\n")}
			},
			wantErr: `unsupported language "de"`,
		},
		{
			name:    "missing site",
			mutate:  func(m fstest.MapFS) { delete(m, "site.yaml") },
			wantErr: "site.yaml is missing",
		},
		{
			name:    "no riddles",
			mutate:  func(m fstest.MapFS) { m["riddles.yaml"] = &fstest.MapFile{Data: []byte("riddles: []\n")} },
			wantErr: "riddle collection is empty",
		},
		{
			name: "riddle without usable answers",
			mutate: func(m fstest.MapFS) {
				m["riddles.yaml"] = &fstest.MapFile{Data: []byte("riddles:\n  - id: x\n    code: print(1)\n    answers: [\" , \"]\n")}
			},
			wantErr: "riddle x has no answers",
		},
		{
			name: "duplicate riddle",
			mutate: func(m fstest.MapFS) {
				m["riddles.yaml"] = &fstest.MapFile{Data: []byte("riddles:\n  - id: x\n    code: a\n    answers: [\"1\"]\n  - id: x\n    code: b\n    answers: [\"2\"]\n")}
			},
			wantErr: "riddle x defined twice",
		},
		{
			name: "broken yaml",
			mutate: func(m fstest.MapFS) {
				m["site.yaml"] = &fstest.MapFile{Data: []byte("brand: [unterminated\n")}
			},
			wantErr: "failed to load site.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := embeddedMapFS(t)
			tt.mutate(m)

			_, err := LoadFromFS(m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFS_ProjectCountMismatch(t *testing.T) {
	m := embeddedMapFS(t)
	en, err := LoadFromFS(m)
	require.NoError(t, err)

	short := *en.Trees[models.LanguageEN]
	short.Projects.Items = short.Projects.Items[:3]
	en.Trees[models.LanguageEN] = &short

	err = en.Validate()
	require.ErrorIs(t, err, ErrIncompleteCatalog)
	assert.Contains(t, err.Error(), "project count differs: en=3 ru=8")
}

func TestAssetProblems(t *testing.T) {
	catalog, err := LoadEmbedded()
	require.NoError(t, err)

	catalog.Profile.ProjectImages = catalog.Profile.ProjectImages[:6]
	problems := catalog.AssetProblems()
	assert.Contains(t, problems, "en: 8 projects but 6 project images")
	assert.Contains(t, problems, "ru: 8 projects but 6 project images")

	// The page still renders, the trailing cards just have no image
	assert.Equal(t, "", catalog.Profile.ProjectImage(7))
	assert.Equal(t, "dns-shop.jpg", catalog.Profile.ProjectImage(0))
}
