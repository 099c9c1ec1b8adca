package deploy

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/nebtools/nebgen/pkg/topology"
)

func TestNodeComposeDescriptor(t *testing.T) {
	node := &topology.Node{Name: "node-a", Port: 5151}

	compose := NodeCompose(node)

	service, exists := compose.Services["nebula_node"]

	if !exists {
		t.Fatal(`the descriptor should declare the nebula_node service`)
	}

	if service.ContainerName != "nebula_node_node-a" {
		t.Fatalf(`Have %s want nebula_node_node-a`, service.ContainerName)
	}

	if service.Image != "nebulaoss/nebula:latest" {
		t.Fatalf(`Have %s want nebulaoss/nebula:latest`, service.Image)
	}

	if len(service.Volumes) != 1 || service.Volumes[0] != "node-a.yaml:/etc/nebula/node-a.yaml" {
		t.Fatalf(`Have %v want the config file mounted`, service.Volumes)
	}

	if len(service.Ports) != 1 || service.Ports[0] != "5151:5151" {
		t.Fatalf(`Have %v want the node port published`, service.Ports)
	}
}

func archiveEntries(t *testing.T, archivePath string) []string {
	t.Helper()

	archive, err := os.Open(archivePath)

	if err != nil {
		t.Error(err)
	}

	defer archive.Close()

	gzipReader, err := gzip.NewReader(archive)

	if err != nil {
		t.Error(err)
	}

	tarReader := tar.NewReader(gzipReader)
	entries := make([]string, 0)

	for {
		header, err := tarReader.Next()

		if err == io.EOF {
			break
		}

		if err != nil {
			t.Error(err)
		}

		entries = append(entries, header.Name)
	}

	return entries
}

func TestExportBundlesListedFiles(t *testing.T) {
	dir := t.TempDir()

	paths := make([]string, 0)

	for _, name := range []string{"node-a.yaml", "node-b.yaml"} {
		path := filepath.Join(dir, name)

		if err := os.WriteFile(path, []byte("contents"), 0o644); err != nil {
			t.Error(err)
		}

		paths = append(paths, path)
	}

	archivePath := filepath.Join(dir, "bundle.tar.gz")

	if err := Export(archivePath, paths, ""); err != nil {
		t.Error(err)
	}

	entries := archiveEntries(t, archivePath)

	if len(entries) != 2 {
		t.Fatalf(`Expected 2 entries got %d`, len(entries))
	}

	if entries[0] != "node-a.yaml" || entries[1] != "node-b.yaml" {
		t.Fatalf(`archive entries should be flat file names, got %v`, entries)
	}
}

func TestExportAddsGlobMatches(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"node-a.crt", "node-a.key"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("artifact"), 0o644); err != nil {
			t.Error(err)
		}
	}

	archivePath := filepath.Join(dir, "bundle.tar.gz")

	err := Export(archivePath, []string{}, filepath.Join(dir, "node-a.*"))

	if err != nil {
		t.Error(err)
	}

	entries := archiveEntries(t, archivePath)

	if len(entries) != 2 {
		t.Fatalf(`Expected 2 entries got %d`, len(entries))
	}
}

func TestExportMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.tar.gz")

	err := Export(archivePath, []string{filepath.Join(dir, "missing.yaml")}, "")

	if err == nil {
		t.Fatal(`error should be thrown`)
	}
}
