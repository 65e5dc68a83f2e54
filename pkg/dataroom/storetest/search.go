package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSearchTests executes the cross-dataroom search tests.
func (suite *StoreTestSuite) RunSearchTests(t *testing.T) {
	t.Run("MatchesAcrossDatarooms", suite.testSearchAcrossDatarooms)
	t.Run("CaseInsensitiveSubstring", suite.testSearchCaseInsensitive)
	t.Run("EmptyQuery", suite.testSearchEmptyQuery)
	t.Run("NoMatches", suite.testSearchNoMatches)
	t.Run("ResultsSorted", suite.testSearchSorted)
}

func (suite *StoreTestSuite) testSearchAcrossDatarooms(t *testing.T) {
	store := suite.NewStore(t)

	alpha := mustCreateDataroom(t, store, "Alpha")
	beta := mustCreateDataroom(t, store, "Beta")
	mustCreateFolder(t, store, alpha.ID, alpha.RootFolderID, "Tax Reports")
	mustUploadFile(t, store, beta.ID, beta.RootFolderID, "tax-2024.pdf", []byte("%PDF"))
	mustUploadFile(t, store, alpha.ID, alpha.RootFolderID, "unrelated.pdf", []byte("%PDF"))

	results, err := store.SearchAllDatarooms(testContext(), "tax")
	require.NoError(t, err)
	require.Len(t, results.Folders, 1)
	require.Len(t, results.Files, 1)
	assert.Equal(t, "Tax Reports", results.Folders[0].Name)
	assert.Equal(t, "tax-2024.pdf", results.Files[0].Name)
}

func (suite *StoreTestSuite) testSearchCaseInsensitive(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	mustUploadFile(t, store, room.ID, room.RootFolderID, "Quarterly Report.pdf", []byte("%PDF"))

	results, err := store.SearchAllDatarooms(testContext(), "  REPORT ")
	require.NoError(t, err)
	require.Len(t, results.Files, 1)
	assert.Equal(t, "Quarterly Report.pdf", results.Files[0].Name)
}

func (suite *StoreTestSuite) testSearchEmptyQuery(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", []byte("%PDF"))

	// Blank queries match nothing rather than everything.
	results, err := store.SearchAllDatarooms(testContext(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, results.Folders)
	assert.NotNil(t, results.Files)
	assert.Empty(t, results.Folders)
	assert.Empty(t, results.Files)
}

func (suite *StoreTestSuite) testSearchNoMatches(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", []byte("%PDF"))

	results, err := store.SearchAllDatarooms(testContext(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, results.Folders)
	assert.Empty(t, results.Files)
}

func (suite *StoreTestSuite) testSearchSorted(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	mustUploadFile(t, store, room.ID, room.RootFolderID, "zeta notes.pdf", []byte("%PDF"))
	mustUploadFile(t, store, room.ID, room.RootFolderID, "Alpha notes.pdf", []byte("%PDF"))
	mustUploadFile(t, store, room.ID, room.RootFolderID, "memo notes.pdf", []byte("%PDF"))

	results, err := store.SearchAllDatarooms(testContext(), "notes")
	require.NoError(t, err)
	require.Len(t, results.Files, 3)
	assert.Equal(t, "Alpha notes.pdf", results.Files[0].Name)
	assert.Equal(t, "memo notes.pdf", results.Files[1].Name)
	assert.Equal(t, "zeta notes.pdf", results.Files[2].Name)
}
