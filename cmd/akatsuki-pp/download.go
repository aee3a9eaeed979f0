package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/levigross/grequests"
)

// mirrorBaseURL is a variable so tests can point at a local server.
var mirrorBaseURL = "https://catboy.best"

// SearchOptions are the mirror search parameters.
type SearchOptions struct {
	Query  string `url:"query"`
	Mode   int    `url:"m"`
	Status int    `url:"status"`
	Limit  int    `url:"limit"`
}

// SetInfo is the subset of the mirror's beatmapset listing we care about.
type SetInfo struct {
	ID     int    `json:"id"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// SearchBeatmapsets queries the mirror for ranked sets matching text.
func SearchBeatmapsets(opts SearchOptions) ([]SetInfo, error) {
	values, err := query.Values(opts)
	if err != nil {
		return nil, err
	}

	done := GetToken()
	Throttle()
	defer done()

	resp, err := grequests.Get(
		mirrorBaseURL+"/api/v2/search?"+values.Encode(),
		grequests.RequestTimeout(time.Minute),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, fmt.Errorf("mirror search returned %d", resp.StatusCode)
	}

	var sets []SetInfo
	if err := resp.JSON(&sets); err != nil {
		return nil, err
	}

	return sets, nil
}

// downloadBeatmapset fetches a beatmapset archive from the mirror and writes
// its .osu files under dir/<set id>/. Returns the written chart paths.
func downloadBeatmapset(setID int, dir string) ([]string, error) {
	files, err := downloadOsuFiles(setID)
	if err != nil {
		return nil, err
	}

	setDir := filepath.Join(dir, fmt.Sprintf("%d", setID))
	if err := os.MkdirAll(setDir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for name, data := range files {
		path := filepath.Join(setDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// downloadOsuFiles treats the mirror's .osz response as a ZIP archive and
// extracts the .osu files it contains.
func downloadOsuFiles(setID int) (map[string][]byte, error) {
	done := GetToken()
	Throttle()
	defer done()

	resp, err := grequests.Get(
		fmt.Sprintf("%s/d/%d", mirrorBaseURL, setID),
		grequests.RequestTimeout(10*time.Minute),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, fmt.Errorf("mirror download returned %d", resp.StatusCode)
	}

	data := resp.Bytes()
	zipReader, err := zip.NewReader(strings.NewReader(string(data)), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening osz (zip) id:%d err: %w", setID, err)
	}

	osuFiles := make(map[string][]byte)
	for _, file := range zipReader.File {
		if !strings.HasSuffix(file.Name, ".osu") {
			continue
		}
		if file.FileInfo().IsDir() ||
			strings.Contains(file.Name, "/") || strings.Contains(file.Name, "\\") {
			continue
		}

		fileReader, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening .osu file %s: %w", file.Name, err)
		}

		contents, err := io.ReadAll(fileReader)
		fileReader.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading .osu file %s: %w", file.Name, err)
		}

		osuFiles[file.Name] = contents
	}

	if len(osuFiles) == 0 {
		return nil, fmt.Errorf("no .osu files found in beatmapset %d", setID)
	}

	return osuFiles, nil
}
