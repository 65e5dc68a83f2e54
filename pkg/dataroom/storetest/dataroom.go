package storetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/pkg/dataroom"
)

// RunDataroomTests executes all dataroom lifecycle tests.
func (suite *StoreTestSuite) RunDataroomTests(t *testing.T) {
	t.Run("Create_Success", suite.testCreateDataroom)
	t.Run("Create_DuplicateName", suite.testCreateDataroomDuplicate)
	t.Run("Create_DifferentCaseAllowed", suite.testCreateDataroomCase)
	t.Run("Get_NotFound", suite.testGetDataroomNotFound)
	t.Run("List_NewestFirst", suite.testListDatarooms)
	t.Run("List_Empty", suite.testListDataroomsEmpty)
	t.Run("Delete_Cascades", suite.testDeleteDataroomCascades)
	t.Run("Delete_FreesName", suite.testDeleteDataroomFreesName)
	t.Run("Delete_Missing", suite.testDeleteDataroomMissing)
}

func (suite *StoreTestSuite) testCreateDataroom(t *testing.T) {
	store := suite.NewStore(t)

	room := mustCreateDataroom(t, store, "Project Alpha")
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "Project Alpha", room.Name)
	require.NotEmpty(t, room.RootFolderID)

	// The root folder is created in the same operation.
	root, err := store.GetFolder(testContext(), room.RootFolderID)
	require.NoError(t, err)
	assert.Equal(t, dataroom.RootFolderName, root.Name)
	assert.True(t, root.IsRoot())
	assert.Equal(t, room.ID, root.DataroomID)
}

func (suite *StoreTestSuite) testCreateDataroomDuplicate(t *testing.T) {
	store := suite.NewStore(t)

	mustCreateDataroom(t, store, "Project Alpha")
	_, err := store.CreateDataroom(testContext(), "Project Alpha")
	require.Error(t, err)
	assert.True(t, dataroom.IsDuplicateName(err))
	assert.Contains(t, err.Error(), dataroom.MsgDuplicateDataroom)
}

func (suite *StoreTestSuite) testCreateDataroomCase(t *testing.T) {
	store := suite.NewStore(t)

	// Dataroom names compare case-sensitively, so these are distinct.
	mustCreateDataroom(t, store, "Project Alpha")
	room := mustCreateDataroom(t, store, "project alpha")
	assert.Equal(t, "project alpha", room.Name)
}

func (suite *StoreTestSuite) testGetDataroomNotFound(t *testing.T) {
	store := suite.NewStore(t)

	_, err := store.GetDataroom(testContext(), "no-such-id")
	require.Error(t, err)
	assert.True(t, dataroom.IsNotFound(err))
}

func (suite *StoreTestSuite) testListDatarooms(t *testing.T) {
	store := suite.NewStore(t)

	first := mustCreateDataroom(t, store, "First")
	time.Sleep(2 * time.Millisecond)
	second := mustCreateDataroom(t, store, "Second")
	time.Sleep(2 * time.Millisecond)
	third := mustCreateDataroom(t, store, "Third")

	rooms, err := store.ListDatarooms(testContext())
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, third.ID, rooms[0].ID)
	assert.Equal(t, second.ID, rooms[1].ID)
	assert.Equal(t, first.ID, rooms[2].ID)
}

func (suite *StoreTestSuite) testListDataroomsEmpty(t *testing.T) {
	store := suite.NewStore(t)

	rooms, err := store.ListDatarooms(testContext())
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func (suite *StoreTestSuite) testDeleteDataroomCascades(t *testing.T) {
	store := suite.NewStore(t)

	room := mustCreateDataroom(t, store, "Doomed")
	folder := mustCreateFolder(t, store, room.ID, room.RootFolderID, "Contracts")
	file := mustUploadFile(t, store, room.ID, folder.ID, "nda.pdf", []byte("%PDF-1.4"))

	require.NoError(t, store.DeleteDataroom(testContext(), room.ID))

	_, err := store.GetDataroom(testContext(), room.ID)
	assert.True(t, dataroom.IsNotFound(err))
	_, err = store.GetFolder(testContext(), room.RootFolderID)
	assert.True(t, dataroom.IsNotFound(err))
	_, err = store.GetFolder(testContext(), folder.ID)
	assert.True(t, dataroom.IsNotFound(err))
	_, err = store.GetFile(testContext(), file.ID)
	assert.True(t, dataroom.IsNotFound(err))
	_, err = store.GetFileBlob(testContext(), file.ID)
	assert.True(t, dataroom.IsNotFound(err))
}

func (suite *StoreTestSuite) testDeleteDataroomFreesName(t *testing.T) {
	store := suite.NewStore(t)

	room := mustCreateDataroom(t, store, "Recycled")
	require.NoError(t, store.DeleteDataroom(testContext(), room.ID))

	// The name is available again after deletion.
	mustCreateDataroom(t, store, "Recycled")
}

func (suite *StoreTestSuite) testDeleteDataroomMissing(t *testing.T) {
	store := suite.NewStore(t)

	assert.NoError(t, store.DeleteDataroom(testContext(), "no-such-id"))
}
