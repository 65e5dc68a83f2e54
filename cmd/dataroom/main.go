// Command dataroom manages datarooms: named collections of folders and PDF
// files kept in a local embedded store.
//
// Usage:
//
//	dataroom [-config path] <command> [arguments]
//
// Run without arguments for the command list.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"dataroom/internal/logger"
	"dataroom/pkg/config"
	"dataroom/pkg/dataroom"
	"dataroom/pkg/gc"
)

const usage = `Usage: dataroom [-config path] <command> [arguments]

Dataroom commands:
  list                                    list datarooms, newest first
  create <name>                           create a dataroom
  delete <dataroom-id>                    delete a dataroom and all its contents

Folder commands:
  ls [-sort f] [-desc] <dataroom-id> [folder-id]
                                          list folder contents (root by default)
  mkdir <dataroom-id> <parent-id> <name>  create a folder
  rename-folder <folder-id> <name>        rename a folder
  rm-folder <folder-id>                   delete a folder and its subtree
  path <folder-id>                        print the path from root to a folder

File commands:
  upload <dataroom-id> <folder-id> <pdf>  upload a PDF file
  download <file-id> <output-path>        download a file's payload
  rename-file <file-id> <name>            rename a file
  rm-file <file-id>                       delete a file

Other commands:
  search <query>                          search folder and file names everywhere
  gc [-dry-run]                           sweep orphaned payloads now
`

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataroom: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Logging.Level)

	ctx := context.Background()

	store, err := config.CreateStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataroom: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store: %v", err)
		}
	}()

	app := &app{store: store, cfg: cfg}
	if err := app.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dataroom: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	store dataroom.Store
	cfg   *config.Config
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		return a.list(ctx)
	case "create":
		return a.create(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "ls":
		return a.ls(ctx, args)
	case "mkdir":
		return a.mkdir(ctx, args)
	case "rename-folder":
		return a.renameFolder(ctx, args)
	case "rm-folder":
		return a.rmFolder(ctx, args)
	case "path":
		return a.path(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "download":
		return a.download(ctx, args)
	case "rename-file":
		return a.renameFile(ctx, args)
	case "rm-file":
		return a.rmFile(ctx, args)
	case "search":
		return a.search(ctx, args)
	case "gc":
		return a.gc(ctx, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) list(ctx context.Context) error {
	rooms, err := a.store.ListDatarooms(ctx)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Println("No datarooms.")
		return nil
	}
	for _, room := range rooms {
		fmt.Printf("%s  %s  (root %s, created %s)\n",
			room.ID, room.Name, room.RootFolderID, room.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: create <name>")
	}
	name := strings.TrimSpace(args[0])
	if err := dataroom.ValidateDataroomName(name); err != nil {
		return err
	}

	room, err := a.store.CreateDataroom(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("Created dataroom %s (%s)\n", room.Name, room.ID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <dataroom-id>")
	}

	room, err := a.store.GetDataroom(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.store.DeleteDataroom(ctx, room.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted dataroom %s\n", room.Name)
	return nil
}

func (a *app) ls(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	sortField := fs.String("sort", "name", "Sort field (name, modified, size)")
	desc := fs.Bool("desc", false, "Sort descending")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		return fmt.Errorf("usage: ls [-sort field] [-desc] <dataroom-id> [folder-id]")
	}

	room, err := a.store.GetDataroom(ctx, rest[0])
	if err != nil {
		return err
	}
	folderID := room.RootFolderID
	if len(rest) == 2 {
		folderID = rest[1]
	}

	contents, err := a.store.GetFolderContents(ctx, room.ID, folderID)
	if err != nil {
		return err
	}

	order := dataroom.SortAsc
	if *desc {
		order = dataroom.SortDesc
	}
	items := dataroom.MergeContents(contents.Folders, contents.Files, dataroom.SortConfig{
		Field: dataroom.SortField(*sortField),
		Order: order,
	})

	if len(items) == 0 {
		fmt.Println("Empty folder.")
		return nil
	}
	for _, item := range items {
		if item.Type == dataroom.ItemFolder {
			fmt.Printf("%s  %-10s %8s  %s/\n",
				item.Folder.ID, "folder", "-", item.Folder.Name)
		} else {
			fmt.Printf("%s  %-10s %8s  %s\n",
				item.File.ID, "file", humanize.Bytes(uint64(item.File.Size)), item.File.Name)
		}
	}
	return nil
}

func (a *app) mkdir(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: mkdir <dataroom-id> <parent-id> <name>")
	}
	name := strings.TrimSpace(args[2])
	if err := dataroom.ValidateFolderName(name); err != nil {
		return err
	}

	folder, err := a.store.CreateFolder(ctx, args[0], args[1], name)
	if err != nil {
		return err
	}
	fmt.Printf("Created folder %s (%s)\n", folder.Name, folder.ID)
	return nil
}

func (a *app) renameFolder(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: rename-folder <folder-id> <name>")
	}
	name := strings.TrimSpace(args[1])
	if err := dataroom.ValidateFolderName(name); err != nil {
		return err
	}

	if err := a.store.RenameFolder(ctx, args[0], name); err != nil {
		return err
	}
	fmt.Printf("Renamed folder to %s\n", name)
	return nil
}

func (a *app) rmFolder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm-folder <folder-id>")
	}

	folder, err := a.store.GetFolder(ctx, args[0])
	if err != nil {
		return err
	}

	counts, err := a.store.CountFolderContents(ctx, folder.ID)
	if err != nil {
		return err
	}
	if err := a.store.DeleteFolderCascade(ctx, folder.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted folder %s (%d subfolders, %d files)\n",
		folder.Name, counts.Folders, counts.Files)
	return nil
}

func (a *app) path(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: path <folder-id>")
	}

	path, err := a.store.GetFolderPath(ctx, args[0])
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return fmt.Errorf("%s", dataroom.MsgFolderNotFound)
	}

	names := make([]string, len(path))
	for i, folder := range path {
		names[i] = folder.Name
	}
	fmt.Println(strings.Join(names, " / "))
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: upload <dataroom-id> <folder-id> <pdf-path>")
	}

	name := filepath.Base(args[2])
	if err := dataroom.ValidateFileName(name); err != nil {
		return err
	}

	data, err := os.ReadFile(args[2])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[2], err)
	}
	if err := a.checkUploadPolicy(name, data); err != nil {
		return err
	}

	meta, err := a.store.UploadFile(ctx, dataroom.Upload{
		DataroomID: args[0],
		FolderID:   args[1],
		Name:       name,
		MIME:       "application/pdf",
		Data:       data,
	})
	if err != nil {
		return err
	}

	if meta.Name != name {
		fmt.Printf("Uploaded %s as %s (%s)\n", name, meta.Name, humanize.Bytes(uint64(meta.Size)))
	} else {
		fmt.Printf("Uploaded %s (%s)\n", meta.Name, humanize.Bytes(uint64(meta.Size)))
	}
	return nil
}

// checkUploadPolicy enforces the configured size cap and content type before
// anything reaches the store.
func (a *app) checkUploadPolicy(name string, data []byte) error {
	if int64(len(data)) > a.cfg.Upload.MaxFileSizeBytes {
		return fmt.Errorf("%s is %s, above the %s limit", name,
			humanize.Bytes(uint64(len(data))),
			humanize.Bytes(uint64(a.cfg.Upload.MaxFileSizeBytes)))
	}

	detected := http.DetectContentType(data)
	for _, allowed := range a.cfg.Upload.AllowedMIMETypes {
		if detected == allowed {
			return nil
		}
	}
	return fmt.Errorf("%s has content type %s, allowed: %s",
		name, detected, strings.Join(a.cfg.Upload.AllowedMIMETypes, ", "))
}

func (a *app) download(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: download <file-id> <output-path>")
	}

	meta, err := a.store.GetFile(ctx, args[0])
	if err != nil {
		return err
	}
	data, err := a.store.GetFileBlob(ctx, meta.ID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}
	fmt.Printf("Downloaded %s to %s (%s)\n", meta.Name, args[1], humanize.Bytes(uint64(len(data))))
	return nil
}

func (a *app) renameFile(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: rename-file <file-id> <name>")
	}
	name := strings.TrimSpace(args[1])
	if err := dataroom.ValidateFileName(name); err != nil {
		return err
	}

	if err := a.store.RenameFile(ctx, args[0], name); err != nil {
		return err
	}
	fmt.Printf("Renamed file to %s\n", name)
	return nil
}

func (a *app) rmFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm-file <file-id>")
	}

	meta, err := a.store.GetFile(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.store.DeleteFile(ctx, meta.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted file %s\n", meta.Name)
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: search <query>")
	}

	results, err := a.store.SearchAllDatarooms(ctx, args[0])
	if err != nil {
		return err
	}
	if len(results.Folders) == 0 && len(results.Files) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, folder := range results.Folders {
		fmt.Printf("%s  %-10s %8s  %s/\n", folder.ID, "folder", "-", folder.Name)
	}
	for _, file := range results.Files {
		fmt.Printf("%s  %-10s %8s  %s\n",
			file.ID, "file", humanize.Bytes(uint64(file.Size)), file.Name)
	}
	return nil
}

func (a *app) gc(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gc", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "Log orphans without deleting them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	blobs, err := config.CreateBlobStore(ctx, &a.cfg.Blobs)
	if err != nil {
		return err
	}
	if blobs == nil {
		return fmt.Errorf("gc requires an external blob store (blobs.type is %q)", a.cfg.Blobs.Type)
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logger.Warn("failed to close blob store: %v", err)
		}
	}()

	collector, err := gc.NewCollector(a.store, blobs, gc.Config{DryRun: *dryRun})
	if err != nil {
		return err
	}

	stats, err := collector.RunNow(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Sweep complete: %s\n", stats.Summary())
	return nil
}
