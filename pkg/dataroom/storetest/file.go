package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/pkg/dataroom"
)

// RunFileTests executes all file upload, blob and rename tests.
func (suite *StoreTestSuite) RunFileTests(t *testing.T) {
	t.Run("Upload_Success", suite.testUploadFile)
	t.Run("Upload_CollisionRenamed", suite.testUploadCollision)
	t.Run("Upload_CaseCollisionRenamed", suite.testUploadCaseCollision)
	t.Run("Upload_CollisionGapFilled", suite.testUploadCollisionGap)
	t.Run("Upload_SameNameOtherFolder", suite.testUploadOtherFolder)
	t.Run("Blob_RoundTrip", suite.testFileBlobRoundTrip)
	t.Run("Blob_NotFound", suite.testFileBlobNotFound)
	t.Run("Get_NotFound", suite.testGetFileNotFound)
	t.Run("Rename_Success", suite.testRenameFile)
	t.Run("Rename_DuplicateName", suite.testRenameFileDuplicate)
	t.Run("Rename_OwnNameOtherCase", suite.testRenameFileOwnCase)
	t.Run("Rename_NotFound", suite.testRenameFileNotFound)
	t.Run("Delete_Success", suite.testDeleteFile)
	t.Run("Delete_Missing", suite.testDeleteFileMissing)
}

func (suite *StoreTestSuite) testUploadFile(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	data := []byte("%PDF-1.4 test payload")
	meta := mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", data)

	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, "report.pdf", meta.Name)
	assert.Equal(t, "application/pdf", meta.MIME)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, room.RootFolderID, meta.FolderID)
}

func (suite *StoreTestSuite) testUploadCollision(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	first := mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", []byte("%PDF"))
	second := mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", []byte("%PDF"))
	third := mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", []byte("%PDF"))

	assert.Equal(t, "report.pdf", first.Name)
	assert.Equal(t, "report (1).pdf", second.Name)
	assert.Equal(t, "report (2).pdf", third.Name)
}

func (suite *StoreTestSuite) testUploadCaseCollision(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	mustUploadFile(t, store, room.ID, room.RootFolderID, "Report.pdf", []byte("%PDF"))
	meta := mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", []byte("%PDF"))

	// A name differing only by case still collides and gets a suffix.
	assert.Equal(t, "report (1).pdf", meta.Name)
}

func (suite *StoreTestSuite) testUploadCollisionGap(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	mustUploadFile(t, store, room.ID, room.RootFolderID, "doc.pdf", []byte("%PDF"))
	second := mustUploadFile(t, store, room.ID, room.RootFolderID, "doc.pdf", []byte("%PDF"))
	require.Equal(t, "doc (1).pdf", second.Name)
	require.NoError(t, store.DeleteFile(testContext(), second.ID))

	// The freed counter slot is reused.
	refilled := mustUploadFile(t, store, room.ID, room.RootFolderID, "doc.pdf", []byte("%PDF"))
	assert.Equal(t, "doc (1).pdf", refilled.Name)
}

func (suite *StoreTestSuite) testUploadOtherFolder(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	folder := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Contracts")

	mustUploadFile(t, store, room.ID, room.RootFolderID, "nda.pdf", []byte("%PDF"))
	meta := mustUploadFile(t, store, room.ID, folder.ID, "nda.pdf", []byte("%PDF"))
	assert.Equal(t, "nda.pdf", meta.Name)
}

func (suite *StoreTestSuite) testFileBlobRoundTrip(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")

	data := []byte("%PDF-1.4 payload bytes")
	meta := mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", data)

	blob, err := store.GetFileBlob(testContext(), meta.ID)
	require.NoError(t, err)
	assert.Equal(t, data, blob)
}

func (suite *StoreTestSuite) testFileBlobNotFound(t *testing.T) {
	store := suite.NewStore(t)

	_, err := store.GetFileBlob(testContext(), "no-such-id")
	require.Error(t, err)
	assert.True(t, dataroom.IsNotFound(err))
}

func (suite *StoreTestSuite) testGetFileNotFound(t *testing.T) {
	store := suite.NewStore(t)

	_, err := store.GetFile(testContext(), "no-such-id")
	require.Error(t, err)
	assert.True(t, dataroom.IsNotFound(err))
}

func (suite *StoreTestSuite) testRenameFile(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	meta := mustUploadFile(t, store, room.ID, room.RootFolderID, "draft.pdf", []byte("%PDF"))

	require.NoError(t, store.RenameFile(testContext(), meta.ID, "final.pdf"))

	got, err := store.GetFile(testContext(), meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "final.pdf", got.Name)

	// The old name is free again.
	fresh := mustUploadFile(t, store, room.ID, room.RootFolderID, "draft.pdf", []byte("%PDF"))
	assert.Equal(t, "draft.pdf", fresh.Name)
}

func (suite *StoreTestSuite) testRenameFileDuplicate(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	mustUploadFile(t, store, room.ID, room.RootFolderID, "taken.pdf", []byte("%PDF"))
	meta := mustUploadFile(t, store, room.ID, room.RootFolderID, "mine.pdf", []byte("%PDF"))

	err := store.RenameFile(testContext(), meta.ID, "Taken.pdf")
	require.Error(t, err)
	assert.True(t, dataroom.IsDuplicateName(err))
	assert.Contains(t, err.Error(), dataroom.MsgDuplicateItem)
}

func (suite *StoreTestSuite) testRenameFileOwnCase(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	meta := mustUploadFile(t, store, room.ID, room.RootFolderID, "report.pdf", []byte("%PDF"))

	require.NoError(t, store.RenameFile(testContext(), meta.ID, "Report.pdf"))

	got, err := store.GetFile(testContext(), meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "Report.pdf", got.Name)
}

func (suite *StoreTestSuite) testRenameFileNotFound(t *testing.T) {
	store := suite.NewStore(t)

	err := store.RenameFile(testContext(), "no-such-id", "anything.pdf")
	require.Error(t, err)
	assert.True(t, dataroom.IsNotFound(err))
}

func (suite *StoreTestSuite) testDeleteFile(t *testing.T) {
	store := suite.NewStore(t)
	room := mustCreateDataroom(t, store, "Alpha")
	meta := mustUploadFile(t, store, room.ID, room.RootFolderID, "gone.pdf", []byte("%PDF"))

	require.NoError(t, store.DeleteFile(testContext(), meta.ID))

	_, err := store.GetFile(testContext(), meta.ID)
	assert.True(t, dataroom.IsNotFound(err))
	_, err = store.GetFileBlob(testContext(), meta.ID)
	assert.True(t, dataroom.IsNotFound(err))
}

func (suite *StoreTestSuite) testDeleteFileMissing(t *testing.T) {
	store := suite.NewStore(t)

	assert.NoError(t, store.DeleteFile(testContext(), "no-such-id"))
}
