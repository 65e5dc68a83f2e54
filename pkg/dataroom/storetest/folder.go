package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/pkg/dataroom"
)

// RunFolderTests executes all folder hierarchy tests.
func (suite *StoreTestSuite) RunFolderTests(t *testing.T) {
	t.Run("Create_Success", suite.testCreateFolder)
	t.Run("Create_DuplicateName", suite.testCreateFolderDuplicate)
	t.Run("Create_DuplicateNameOtherCase", suite.testCreateFolderDuplicateCase)
	t.Run("Create_SameNameOtherParent", suite.testCreateFolderOtherParent)
	t.Run("Contents_SortedByName", suite.testFolderContentsSorted)
	t.Run("Contents_EmptyFolder", suite.testFolderContentsEmpty)
	t.Run("Path_RootToLeaf", suite.testFolderPath)
	t.Run("Path_MissingFolder", suite.testFolderPathMissing)
	t.Run("Rename_Success", suite.testRenameFolder)
	t.Run("Rename_DuplicateName", suite.testRenameFolderDuplicate)
	t.Run("Rename_OwnNameOtherCase", suite.testRenameFolderOwnCase)
	t.Run("Rename_NotFound", suite.testRenameFolderNotFound)
	t.Run("Delete_Cascades", suite.testDeleteFolderCascades)
	t.Run("Delete_Missing", suite.testDeleteFolderMissing)
	t.Run("Count_NestedContents", suite.testCountFolderContents)
	t.Run("Count_MissingFolder", suite.testCountMissingFolder)
	t.Run("Size_NestedContents", suite.testCalculateFileSize)
	t.Run("Size_MissingFolder", suite.testCalculateSizeMissing)
}

func (suite *StoreTestSuite) testCreateFolder(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	folder := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Financials")
	assert.NotEmpty(t, folder.ID)
	assert.Equal(t, room.RootFolderID, folder.ParentID)
	assert.False(t, folder.IsRoot())

	got, err := store.GetFolder(testContext(), folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Financials", got.Name)
}

func (suite *StoreTestSuite) testCreateFolderDuplicate(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	mustCreateFolder(t, store, room.ID, room.RootFolderID, "Financials")
	_, err := store.CreateFolder(testContext(), room.ID, room.RootFolderID, "Financials")
	require.Error(t, err)
	assert.True(t, dataroom.IsDuplicateName(err))
	assert.Contains(t, err.Error(), dataroom.MsgDuplicateItem)
}

func (suite *StoreTestSuite) testCreateFolderDuplicateCase(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	mustCreateFolder(t, store, room.ID, room.RootFolderID, "Financials")
	_, err := store.CreateFolder(testContext(), room.ID, room.RootFolderID, "FINANCIALS")
	require.Error(t, err)
	assert.True(t, dataroom.IsDuplicateName(err))
}

func (suite *StoreTestSuite) testCreateFolderOtherParent(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	parent := mustCreateFolder(t, store, room.ID, room.RootFolderID, "2024")
	// Uniqueness is scoped to the parent, not the dataroom.
	mustCreateFolder(t, store, room.ID, room.RootFolderID, "Reports")
	mustCreateFolder(t, store, room.ID, parent.ID, "Reports")
}

func (suite *StoreTestSuite) testFolderContentsSorted(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	mustCreateFolder(t, store, room.ID, room.RootFolderID, "zebra")
	mustCreateFolder(t, store, room.ID, room.RootFolderID, "Apple")
	mustUploadFile(t, store, room.ID, room.RootFolderID, "notes.pdf", []byte("%PDF"))
	mustUploadFile(t, store, room.ID, room.RootFolderID, "Agenda.pdf", []byte("%PDF"))

	contents, err := store.GetFolderContents(testContext(), room.ID, room.RootFolderID)
	require.NoError(t, err)
	require.Len(t, contents.Folders, 2)
	require.Len(t, contents.Files, 2)
	assert.Equal(t, "Apple", contents.Folders[0].Name)
	assert.Equal(t, "zebra", contents.Folders[1].Name)
	assert.Equal(t, "Agenda.pdf", contents.Files[0].Name)
	assert.Equal(t, "notes.pdf", contents.Files[1].Name)
}

func (suite *StoreTestSuite) testFolderContentsEmpty(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	contents, err := store.GetFolderContents(testContext(), room.ID, room.RootFolderID)
	require.NoError(t, err)
	assert.NotNil(t, contents.Folders)
	assert.NotNil(t, contents.Files)
	assert.Empty(t, contents.Folders)
	assert.Empty(t, contents.Files)
}

func (suite *StoreTestSuite) testFolderPath(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	level1 := mustCreateFolder(t, store, room.ID, room.RootFolderID, "2024")
	level2 := mustCreateFolder(t, store, room.ID, level1.ID, "Q3")
	level3 := mustCreateFolder(t, store, room.ID, level2.ID, "Reports")

	path, err := store.GetFolderPath(testContext(), level3.ID)
	require.NoError(t, err)
	require.Len(t, path, 4)
	assert.Equal(t, room.RootFolderID, path[0].ID)
	assert.Equal(t, level1.ID, path[1].ID)
	assert.Equal(t, level2.ID, path[2].ID)
	assert.Equal(t, level3.ID, path[3].ID)
}

func (suite *StoreTestSuite) testFolderPathMissing(t *testing.T) {
	store := suite.NewStore(t)

	path, err := store.GetFolderPath(testContext(), "no-such-id")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func (suite *StoreTestSuite) testRenameFolder(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	folder := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Old")

	require.NoError(t, store.RenameFolder(testContext(), folder.ID, "New"))

	got, err := store.GetFolder(testContext(), folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.False(t, got.UpdatedAt.Before(folder.UpdatedAt))

	// The old name is free again.
	mustCreateFolder(t, store, room.ID, room.RootFolderID, "Old")
}

func (suite *StoreTestSuite) testRenameFolderDuplicate(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	mustCreateFolder(t, store, room.ID, room.RootFolderID, "Taken")
	folder := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Mine")

	err := store.RenameFolder(testContext(), folder.ID, "taken")
	require.Error(t, err)
	assert.True(t, dataroom.IsDuplicateName(err))
}

func (suite *StoreTestSuite) testRenameFolderOwnCase(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	folder := mustCreateFolder(t, store, room.ID, room.RootFolderID, "reports")

	// Changing only the casing of a folder's own name is allowed.
	require.NoError(t, store.RenameFolder(testContext(), folder.ID, "Reports"))

	got, err := store.GetFolder(testContext(), folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reports", got.Name)
}

func (suite *StoreTestSuite) testRenameFolderNotFound(t *testing.T) {
	store := suite.NewStore(t)

	err := store.RenameFolder(testContext(), "no-such-id", "Anything")
	require.Error(t, err)
	assert.True(t, dataroom.IsNotFound(err))
}

func (suite *StoreTestSuite) testDeleteFolderCascades(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	target := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Archive")
	child := mustCreateFolder(t, store, room.ID, target.ID, "2023")
	grandchild := mustCreateFolder(t, store, room.ID, child.ID, "Q1")
	inTarget := mustUploadFile(t, store, room.ID, target.ID, "a.pdf", []byte("%PDF"))
	inGrandchild := mustUploadFile(t, store, room.ID, grandchild.ID, "b.pdf", []byte("%PDF"))
	sibling := mustUploadFile(t, store, room.ID, room.RootFolderID, "keep.pdf", []byte("%PDF"))

	require.NoError(t, store.DeleteFolderCascade(testContext(), target.ID))

	for _, id := range []string{target.ID, child.ID, grandchild.ID} {
		_, err := store.GetFolder(testContext(), id)
		assert.True(t, dataroom.IsNotFound(err))
	}
	for _, id := range []string{inTarget.ID, inGrandchild.ID} {
		_, err := store.GetFile(testContext(), id)
		assert.True(t, dataroom.IsNotFound(err))
	}

	// Content outside the subtree survives.
	_, err := store.GetFile(testContext(), sibling.ID)
	assert.NoError(t, err)
	_, err = store.GetFolder(testContext(), room.RootFolderID)
	assert.NoError(t, err)
}

func (suite *StoreTestSuite) testDeleteFolderMissing(t *testing.T) {
	store := suite.NewStore(t)

	assert.NoError(t, store.DeleteFolderCascade(testContext(), "no-such-id"))
}

func (suite *StoreTestSuite) testCountFolderContents(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	target := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Archive")
	child := mustCreateFolder(t, store, room.ID, target.ID, "2023")
	mustCreateFolder(t, store, room.ID, child.ID, "Q1")
	mustUploadFile(t, store, room.ID, target.ID, "a.pdf", []byte("%PDF"))
	mustUploadFile(t, store, room.ID, child.ID, "b.pdf", []byte("%PDF"))
	mustUploadFile(t, store, room.ID, room.RootFolderID, "outside.pdf", []byte("%PDF"))

	counts, err := store.CountFolderContents(testContext(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Folders)
	assert.Equal(t, 2, counts.Files)
}

func (suite *StoreTestSuite) testCountMissingFolder(t *testing.T) {
	store := suite.NewStore(t)

	counts, err := store.CountFolderContents(testContext(), "no-such-id")
	require.NoError(t, err)
	assert.Equal(t, dataroom.ContentCounts{}, counts)
}

func (suite *StoreTestSuite) testCalculateFileSize(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	target := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Archive")
	child := mustCreateFolder(t, store, room.ID, target.ID, "2023")
	mustUploadFile(t, store, room.ID, target.ID, "a.pdf", make([]byte, 100))
	mustUploadFile(t, store, room.ID, child.ID, "b.pdf", make([]byte, 250))
	mustUploadFile(t, store, room.ID, room.RootFolderID, "outside.pdf", make([]byte, 999))

	total, err := store.CalculateFileSize(testContext(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(350), total)
}

func (suite *StoreTestSuite) testCalculateSizeMissing(t *testing.T) {
	store := suite.NewStore(t)

	total, err := store.CalculateFileSize(testContext(), "no-such-id")
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
