package deploy

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

func appendFile(writer *tar.Writer, path string) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	info, err := file.Stat()

	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")

	if err != nil {
		return err
	}

	// archive entries are flat, named after the file only
	header.Name = filepath.Base(path)

	if err := writer.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(writer, file)
	return err
}

// Export writes the given output files, plus any files matching the
// optional glob pattern, into a single gzip-compressed tar archive
func Export(archivePath string, outputs []string, globPattern string) error {
	if globPattern != "" {
		matches, err := filepath.Glob(globPattern)

		if err != nil {
			return err
		}

		outputs = append(outputs, matches...)
	}

	archive, err := os.Create(archivePath)

	if err != nil {
		return err
	}

	defer archive.Close()

	gzipWriter := gzip.NewWriter(archive)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for _, path := range outputs {
		if err := appendFile(tarWriter, path); err != nil {
			return err
		}
	}

	return nil
}
