package main

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/alecthomas/kingpin.v2"

	pp "github.com/Niotid/akatsuki-pp-go"
	"github.com/Niotid/akatsuki-pp-go/dotosu"
)

var (
	paths = kingpin.Arg("path", ".osu files or directories to calculate").ExistingFilesOrDirs()

	mods      = kingpin.Flag("mods", "Mod bits in osu!api encoding, e.g. 64 for DT").Short('m').Default("0").Uint()
	clockRate = kingpin.Flag("rate", "Clock rate override, takes precedence over mods").Short('r').Float64()
	passed    = kingpin.Flag("passed-objects", "Limit calculation to the first n objects").Short('n').Int()
	asMania   = kingpin.Flag("mania", "Reinterpret standard charts under mania rules").Bool()
	jsonOut   = kingpin.Flag("json", "Print results as JSON").Bool()

	cachePath = kingpin.Flag("cache", "SQLite attribute cache").Default("attributes.db").String()
	noCache   = kingpin.Flag("no-cache", "Disable the attribute cache").Bool()

	downloadSet = kingpin.Flag("download", "Download a beatmapset by id before calculating").Int()
	downloadDir = kingpin.Flag("download-dir", "Directory for downloaded charts").Default(".").String()
	searchText  = kingpin.Flag("search", "List ranked beatmapsets matching a mirror search").String()
)

// Result is one calculated chart, as printed.
type Result struct {
	Path      string  `json:"path"`
	Title     string  `json:"title"`
	Version   string  `json:"version"`
	Mode      string  `json:"mode"`
	Mods      uint    `json:"mods"`
	Stars     float64 `json:"stars"`
	PP        float64 `json:"pp"`
	HitWindow float64 `json:"hit_window,omitempty"`
	MaxCombo  int     `json:"max_combo,omitempty"`
	Cached    bool    `json:"cached,omitempty"`
}

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	files := *paths

	if *searchText != "" {
		sets, err := SearchBeatmapsets(SearchOptions{Query: *searchText, Status: 1, Limit: 25})
		if err != nil {
			return fmt.Errorf("mirror search: %w", err)
		}
		for _, set := range sets {
			fmt.Printf("%d\t%s - %s\n", set.ID, set.Artist, set.Title)
		}
		if len(files) == 0 && *downloadSet == 0 {
			return nil
		}
	}

	if *downloadSet != 0 {
		downloaded, err := downloadBeatmapset(*downloadSet, *downloadDir)
		if err != nil {
			return fmt.Errorf("download set %d: %w", *downloadSet, err)
		}
		files = append(files, downloaded...)
	}

	osuFiles, err := collectOsuFiles(files)
	if err != nil {
		return err
	}
	if len(osuFiles) == 0 {
		return fmt.Errorf("no .osu files to calculate")
	}

	var store *Store
	if !*noCache {
		store, err = OpenStore(*cachePath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer store.Close()
	}

	results := make([]*Result, len(osuFiles))
	wg := sync.WaitGroup{}
	for i, path := range osuFiles {
		wg.Add(1)
		Run(func() {
			defer wg.Done()
			res, err := calculateFile(path, store)
			if err != nil {
				log.Printf("%s: %v", path, err)
				return
			}
			results[i] = res
		})
	}
	wg.Wait()

	return printResults(results)
}

func collectOsuFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".osu") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func calculateFile(path string, store *Store) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chart, err := dotosu.Decode(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	if err := chart.Validate(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	key := CacheKey{
		Sum:           base64.StdEncoding.EncodeToString(sum[:]),
		Mods:          uint32(*mods),
		ClockRate:     resolvedRate(),
		PassedObjects: passedOrAll(),
		Mania:         *asMania,
	}

	if store != nil {
		if cached, ok := store.Load(key); ok {
			res := resultFromCache(path, chart, cached)
			return res, nil
		}
	}

	res, err := calculateChart(path, chart)
	if err != nil {
		return nil, err
	}

	if store != nil {
		store.Save(key, CachedAttributes{
			Mode:      res.Mode,
			Stars:     res.Stars,
			PP:        res.PP,
			HitWindow: res.HitWindow,
			MaxCombo:  res.MaxCombo,
		})
	}

	return res, nil
}

func calculateChart(path string, chart *dotosu.Beatmap) (*Result, error) {
	m := pp.FromDotosu(chart)

	res := &Result{
		Path:    path,
		Title:   chart.Metadata.Title,
		Version: chart.Metadata.Version,
		Mods:    *mods,
	}

	switch {
	case m.Mode == pp.ModeMania || *asMania:
		res.Mode = "mania"

		stars := pp.NewManiaStars(m).Mods(pp.Mods(*mods))
		applyManiaOverrides(stars)
		attrs := stars.Calculate()

		perfect := pp.ManiaScoreState{N320: objectCount(m)}
		perf := pp.NewManiaPP(m).
			Mods(pp.Mods(*mods)).
			Attributes(attrs).
			State(perfect).
			Calculate()

		res.Stars = attrs.Stars
		res.HitWindow = attrs.HitWindow
		res.PP = perf.PP

	case m.Mode == pp.ModeOsu:
		res.Mode = "osu"

		stars := pp.NewOsuStars(m).Mods(pp.Mods(*mods))
		applyOsuOverrides(stars)
		attrs := stars.Calculate()

		perfect := pp.OsuScoreState{
			MaxCombo: attrs.MaxCombo,
			N300:     objectCount(m),
		}
		perf := pp.NewOsuPP(m).
			Mods(pp.Mods(*mods)).
			Attributes(attrs).
			State(perfect).
			Calculate()

		res.Stars = attrs.Stars
		res.MaxCombo = attrs.MaxCombo
		res.PP = perf.PP

	default:
		return nil, fmt.Errorf("unsupported mode %d", m.Mode)
	}

	return res, nil
}

func applyManiaOverrides(stars *pp.ManiaStars) {
	if *clockRate > 0 {
		stars.ClockRate(*clockRate)
	}
	if *passed > 0 {
		stars.PassedObjects(*passed)
	}
}

func applyOsuOverrides(stars *pp.OsuStars) {
	if *clockRate > 0 {
		stars.ClockRate(*clockRate)
	}
	if *passed > 0 {
		stars.PassedObjects(*passed)
	}
}

func objectCount(m *pp.Beatmap) int {
	n := len(m.HitObjects)
	if *passed > 0 && *passed < n {
		n = *passed
	}
	return n
}

func resolvedRate() float64 {
	if *clockRate > 0 {
		return *clockRate
	}
	return pp.Mods(*mods).ClockRate()
}

func passedOrAll() int {
	if *passed > 0 {
		return *passed
	}
	return -1
}

func resultFromCache(path string, chart *dotosu.Beatmap, cached CachedAttributes) *Result {
	return &Result{
		Path:      path,
		Title:     chart.Metadata.Title,
		Version:   chart.Metadata.Version,
		Mode:      cached.Mode,
		Mods:      *mods,
		Stars:     cached.Stars,
		PP:        cached.PP,
		HitWindow: cached.HitWindow,
		MaxCombo:  cached.MaxCombo,
		Cached:    true,
	}
}

func printResults(results []*Result) error {
	if *jsonOut {
		out := make([]*Result, 0, len(results))
		for _, res := range results {
			if res != nil {
				out = append(out, res)
			}
		}
		data, err := json.MarshalIndent(out, "", "\t")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		cached := ""
		if res.Cached {
			cached = " (cached)"
		}
		fmt.Printf(
			"%s [%s]\n%s | mods=%d | %.4f stars | %.2fpp%s\n\n",
			res.Title, res.Version,
			res.Mode, res.Mods, res.Stars, res.PP, cached,
		)
	}
	return nil
}
