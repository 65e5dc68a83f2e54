// Package memory implements the dataroom entity store with in-memory maps.
//
// This implementation is functionally equivalent to the BadgerDB store and is
// exercised by the same acceptance suite. It is suitable for tests and for
// ephemeral use where persistence across restarts is not required.
//
// Thread Safety:
// All operations take a single read-write mutex, which also makes every
// multi-record mutation trivially atomic: no reader can observe a
// partially-applied cascade or a dataroom without its root folder.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dataroom/pkg/dataroom"
)

// Store implements dataroom.Store backed by maps. Payloads are embedded,
// mirroring the default blob placement of the BadgerDB store.
type Store struct {
	mu        sync.RWMutex
	datarooms map[string]dataroom.Dataroom
	folders   map[string]dataroom.Folder
	files     map[string]dataroom.FileMetadata
	blobs     map[string][]byte
}

// NewStore creates an empty in-memory entity store.
func NewStore() *Store {
	return &Store{
		datarooms: make(map[string]dataroom.Dataroom),
		folders:   make(map[string]dataroom.Folder),
		files:     make(map[string]dataroom.FileMetadata),
		blobs:     make(map[string][]byte),
	}
}

func (s *Store) ListDatarooms(ctx context.Context) ([]dataroom.Dataroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]dataroom.Dataroom, 0, len(s.datarooms))
	for _, room := range s.datarooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (s *Store) GetDataroom(ctx context.Context, id string) (*dataroom.Dataroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.datarooms[id]
	if !ok {
		return nil, &dataroom.StoreError{
			Code:    dataroom.ErrNotFound,
			Message: dataroom.MsgDataroomNotFound,
			Path:    id,
		}
	}
	return &room, nil
}

func (s *Store) CreateDataroom(ctx context.Context, name string) (*dataroom.Dataroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Dataroom names collide case-sensitively, unlike folder and file names.
	for _, room := range s.datarooms {
		if room.Name == name {
			return nil, &dataroom.StoreError{
				Code:    dataroom.ErrDuplicateName,
				Message: dataroom.MsgDuplicateDataroom,
				Path:    name,
			}
		}
	}

	now := time.Now()
	room := dataroom.Dataroom{
		ID:           uuid.NewString(),
		Name:         name,
		RootFolderID: uuid.NewString(),
		CreatedAt:    now,
	}
	root := dataroom.Folder{
		ID:         room.RootFolderID,
		DataroomID: room.ID,
		Name:       dataroom.RootFolderName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.datarooms[room.ID] = room
	s.folders[root.ID] = root
	return &room, nil
}

func (s *Store) DeleteDataroom(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for folderID, folder := range s.folders {
		if folder.DataroomID == id {
			delete(s.folders, folderID)
		}
	}
	for fileID, file := range s.files {
		if file.DataroomID == id {
			delete(s.files, fileID)
			delete(s.blobs, fileID)
		}
	}
	delete(s.datarooms, id)
	return nil
}

func (s *Store) GetFolderContents(ctx context.Context, dataroomID, folderID string) (*dataroom.FolderContents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	contents := &dataroom.FolderContents{
		Folders: []dataroom.Folder{},
		Files:   []dataroom.FileMetadata{},
	}

	for _, folder := range s.folders {
		if folder.DataroomID == dataroomID && folder.ParentID == folderID {
			contents.Folders = append(contents.Folders, folder)
		}
	}
	for _, file := range s.files {
		if file.DataroomID == dataroomID && file.FolderID == folderID {
			contents.Files = append(contents.Files, file)
		}
	}

	sortContents(contents)
	return contents, nil
}

func (s *Store) GetFolder(ctx context.Context, folderID string) (*dataroom.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	folder, ok := s.folders[folderID]
	if !ok {
		return nil, &dataroom.StoreError{
			Code:    dataroom.ErrNotFound,
			Message: dataroom.MsgFolderNotFound,
			Path:    folderID,
		}
	}
	return &folder, nil
}

func (s *Store) GetFolderPath(ctx context.Context, folderID string) ([]dataroom.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := []dataroom.Folder{}
	currentID := folderID
	for currentID != "" && len(path) < len(s.folders)+1 {
		folder, ok := s.folders[currentID]
		if !ok {
			break
		}
		path = append(path, folder)
		currentID = folder.ParentID
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

func (s *Store) CreateFolder(ctx context.Context, dataroomID, parentID, name string) (*dataroom.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.siblingFolderExists(dataroomID, parentID, name, "") {
		return nil, &dataroom.StoreError{
			Code:    dataroom.ErrDuplicateName,
			Message: dataroom.MsgDuplicateItem,
			Path:    name,
		}
	}

	now := time.Now()
	folder := dataroom.Folder{
		ID:         uuid.NewString(),
		DataroomID: dataroomID,
		ParentID:   parentID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.folders[folder.ID] = folder
	return &folder, nil
}

func (s *Store) RenameFolder(ctx context.Context, folderID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[folderID]
	if !ok {
		return &dataroom.StoreError{
			Code:    dataroom.ErrNotFound,
			Message: dataroom.MsgFolderNotFound,
			Path:    folderID,
		}
	}

	if s.siblingFolderExists(folder.DataroomID, folder.ParentID, name, folderID) {
		return &dataroom.StoreError{
			Code:    dataroom.ErrDuplicateName,
			Message: dataroom.MsgDuplicateItem,
			Path:    name,
		}
	}

	folder.Name = name
	folder.UpdatedAt = time.Now()
	s.folders[folderID] = folder
	return nil
}

func (s *Store) DeleteFolderCascade(ctx context.Context, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[folderID]; !ok {
		return nil
	}

	targets := append(s.descendantFolders(folderID), folderID)
	for _, target := range targets {
		for fileID, file := range s.files {
			if file.FolderID == target {
				delete(s.files, fileID)
				delete(s.blobs, fileID)
			}
		}
		delete(s.folders, target)
	}
	return nil
}

func (s *Store) CountFolderContents(ctx context.Context, folderID string) (dataroom.ContentCounts, error) {
	if err := ctx.Err(); err != nil {
		return dataroom.ContentCounts{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.folders[folderID]; !ok {
		return dataroom.ContentCounts{}, nil
	}

	descendants := s.descendantFolders(folderID)
	counts := dataroom.ContentCounts{Folders: len(descendants)}

	for _, target := range append(descendants, folderID) {
		for _, file := range s.files {
			if file.FolderID == target {
				counts.Files++
			}
		}
	}
	return counts, nil
}

func (s *Store) CalculateFileSize(ctx context.Context, folderID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.folders[folderID]; !ok {
		return 0, nil
	}

	var total int64
	for _, target := range append(s.descendantFolders(folderID), folderID) {
		for _, file := range s.files {
			if file.FolderID == target {
				total += file.Size
			}
		}
	}
	return total, nil
}

func (s *Store) UploadFile(ctx context.Context, up dataroom.Upload) (*dataroom.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, file := range s.files {
		if file.DataroomID == up.DataroomID && file.FolderID == up.FolderID {
			names = append(names, file.Name)
		}
	}

	// Resolve until the name is free under the case-insensitive sibling
	// invariant, not just under exact comparison.
	resolved := dataroom.UniqueName(up.Name, names)
	for s.siblingFileExists(up.DataroomID, up.FolderID, resolved, "") {
		names = append(names, resolved)
		resolved = dataroom.UniqueName(up.Name, names)
	}

	data := make([]byte, len(up.Data))
	copy(data, up.Data)

	now := time.Now()
	meta := dataroom.FileMetadata{
		ID:         uuid.NewString(),
		DataroomID: up.DataroomID,
		FolderID:   up.FolderID,
		Name:       resolved,
		MIME:       up.MIME,
		Size:       int64(len(up.Data)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.files[meta.ID] = meta
	s.blobs[meta.ID] = data
	return &meta, nil
}

func (s *Store) GetFile(ctx context.Context, fileID string) (*dataroom.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.files[fileID]
	if !ok {
		return nil, &dataroom.StoreError{
			Code:    dataroom.ErrNotFound,
			Message: dataroom.MsgFileNotFound,
			Path:    fileID,
		}
	}
	return &file, nil
}

func (s *Store) GetFileBlob(ctx context.Context, fileID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[fileID]
	if !ok {
		return nil, &dataroom.StoreError{
			Code:    dataroom.ErrNotFound,
			Message: dataroom.MsgFileNotFound,
			Path:    fileID,
		}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (s *Store) RenameFile(ctx context.Context, fileID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok {
		return &dataroom.StoreError{
			Code:    dataroom.ErrNotFound,
			Message: dataroom.MsgFileNotFound,
			Path:    fileID,
		}
	}

	if s.siblingFileExists(file.DataroomID, file.FolderID, name, fileID) {
		return &dataroom.StoreError{
			Code:    dataroom.ErrDuplicateName,
			Message: dataroom.MsgDuplicateItem,
			Path:    name,
		}
	}

	file.Name = name
	file.UpdatedAt = time.Now()
	s.files[fileID] = file
	return nil
}

func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, fileID)
	delete(s.blobs, fileID)
	return nil
}

func (s *Store) SearchAllDatarooms(ctx context.Context, query string) (*dataroom.FolderContents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := &dataroom.FolderContents{
		Folders: []dataroom.Folder{},
		Files:   []dataroom.FileMetadata{},
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return results, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, folder := range s.folders {
		if strings.Contains(strings.ToLower(folder.Name), term) {
			results.Folders = append(results.Folders, folder)
		}
	}
	for _, file := range s.files {
		if strings.Contains(strings.ToLower(file.Name), term) {
			results.Files = append(results.Files, file)
		}
	}

	sortContents(results)
	return results, nil
}

func (s *Store) Close() error {
	return nil
}

// descendantFolders gathers every folder id below folderID with an explicit
// work-list. Callers must hold the lock.
func (s *Store) descendantFolders(folderID string) []string {
	var all []string

	stack := []string{folderID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for id, folder := range s.folders {
			if folder.ParentID == current {
				all = append(all, id)
				stack = append(stack, id)
			}
		}
	}
	return all
}

// siblingFolderExists reports whether a folder other than excludeID holds the
// name (case-insensitive) under the same parent. Callers must hold the lock.
func (s *Store) siblingFolderExists(dataroomID, parentID, name, excludeID string) bool {
	for id, folder := range s.folders {
		if id == excludeID {
			continue
		}
		if folder.DataroomID == dataroomID && folder.ParentID == parentID &&
			strings.EqualFold(folder.Name, name) {
			return true
		}
	}
	return false
}

// siblingFileExists is the file analog of siblingFolderExists.
func (s *Store) siblingFileExists(dataroomID, folderID, name, excludeID string) bool {
	for id, file := range s.files {
		if id == excludeID {
			continue
		}
		if file.DataroomID == dataroomID && file.FolderID == folderID &&
			strings.EqualFold(file.Name, name) {
			return true
		}
	}
	return false
}

// sortContents orders both lists by name, case-insensitive, ascending.
func sortContents(contents *dataroom.FolderContents) {
	sort.Slice(contents.Folders, func(i, j int) bool {
		return strings.ToLower(contents.Folders[i].Name) < strings.ToLower(contents.Folders[j].Name)
	})
	sort.Slice(contents.Files, func(i, j int) bool {
		return strings.ToLower(contents.Files[i].Name) < strings.ToLower(contents.Files[j].Name)
	})
}
