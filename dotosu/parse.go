// Package dotosu decodes .osu beatmap files into the data a difficulty
// calculation needs: difficulty settings, timing points and hit objects.
// Storyboard, hitsound and editor data are skipped.
package dotosu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	// Maps before format v5 store times shifted by a fixed offset.
	earlyVersionTimingOffset = 24

	maxManiaKeyCount = 18
)

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secDifficulty
	secTimingPoints
	secHitObjects
)

type Beatmap struct {
	FormatVersion int
	General       General
	Metadata      Metadata
	Difficulty    Difficulty

	TimingPoints []TimingPoint
	HitObjects   []HitObject
}

type General struct {
	AudioFilename string
	Mode          int
	StackLeniency float64
}

type Metadata struct {
	Title, Artist, Creator, Version string
	BeatmapID, BeatmapSetID         int
}

type Difficulty struct {
	HPDrainRate, CircleSize, OverallDifficulty, ApproachRate float64
	SliderMultiplier, SliderTickRate                         float64
}

type TimingPoint struct {
	Time                     int
	BeatLength               float64
	TimingChange             bool
	SliderVelocityMultiplier float64
}

type HitObjectTypeFlags int

const (
	TypeCircle  HitObjectTypeFlags = 1 << iota // 1
	TypeSlider                                 // 2
	TypeNewCombo                               // 4
	TypeSpinner                                // 8
	_
	_
	_
	TypeHold HitObjectTypeFlags = 1 << 7 // 128
)

type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

type Vec2 struct{ X, Y int }

type HitObject interface {
	Kind() ObjectKind
	StartTime() int
	Pos() Vec2
}

type BaseHO struct {
	PosXY Vec2
	Time  int
	Type  HitObjectTypeFlags
}

func (b BaseHO) StartTime() int { return b.Time }
func (b BaseHO) Pos() Vec2      { return b.PosXY }

type Circle struct{ BaseHO }

func (Circle) Kind() ObjectKind { return KindCircle }

type Slider struct {
	BaseHO
	Slides int
	Length float64
}

func (Slider) Kind() ObjectKind { return KindSlider }

type Spinner struct {
	BaseHO
	EndTime int
}

func (Spinner) Kind() ObjectKind { return KindSpinner }

type Hold struct {
	BaseHO
	EndTime int
}

func (Hold) Kind() ObjectKind { return KindHold }

func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*Beatmap, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 1024 * 1024
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var header string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		header = line
		break
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.ToLower(header), "osu file format v") {
		return nil, fmt.Errorf("invalid .osu header: %q", header)
	}
	versionStr := strings.TrimSpace(strings.TrimPrefix(header, "osu file format v"))
	formatVersion, err := strconv.Atoi(versionStr)
	if err != nil {
		return nil, fmt.Errorf("invalid .osu version in header: %q: %w", header, err)
	}

	b := &Beatmap{
		FormatVersion: formatVersion,
		Difficulty: Difficulty{
			SliderMultiplier: 1,
			SliderTickRate:   1,
		},
	}

	offset := 0
	if formatVersion < 5 {
		offset = earlyVersionTimingOffset
	}

	sec := secNone
	seenAR := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			switch strings.ToLower(line) {
			case "[general]":
				sec = secGeneral
			case "[metadata]":
				sec = secMetadata
			case "[difficulty]":
				sec = secDifficulty
			case "[timingpoints]":
				sec = secTimingPoints
			case "[hitobjects]":
				sec = secHitObjects
			default:
				sec = secNone
			}
			continue
		}

		switch sec {
		case secGeneral:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "audiofilename":
				b.General.AudioFilename = strings.Trim(v, "\"")
			case "mode":
				b.General.Mode = parseInt(v, 0)
			case "stackleniency":
				b.General.StackLeniency = parseFloat(v, 0)
			}

		case secMetadata:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "title":
				b.Metadata.Title = v
			case "artist":
				b.Metadata.Artist = v
			case "creator":
				b.Metadata.Creator = v
			case "version":
				b.Metadata.Version = v
			case "beatmapid":
				b.Metadata.BeatmapID = parseInt(v, 0)
			case "beatmapsetid":
				b.Metadata.BeatmapSetID = parseInt(v, 0)
			}

		case secDifficulty:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "hpdrainrate":
				b.Difficulty.HPDrainRate = parseFloat(v, 0)
			case "circlesize":
				b.Difficulty.CircleSize = parseFloat(v, 0)
			case "overalldifficulty":
				b.Difficulty.OverallDifficulty = parseFloat(v, 0)
				if !seenAR {
					b.Difficulty.ApproachRate = b.Difficulty.OverallDifficulty
				}
			case "approachrate":
				b.Difficulty.ApproachRate = parseFloat(v, 0)
				seenAR = true
			case "slidermultiplier":
				b.Difficulty.SliderMultiplier = parseFloat(v, 1)
			case "slidertickrate":
				b.Difficulty.SliderTickRate = parseFloat(v, 1)
			}

		case secTimingPoints:
			parts := strings.Split(line, ",")
			if len(parts) < 2 {
				continue
			}
			t := parseInt(parts[0], 0) + offset
			beatLen := parseFloatAllowNaN(parts[1])
			timingChange := true
			if len(parts) >= 7 {
				timingChange = strings.TrimSpace(parts[6]) == "1"
			}
			sv := 1.0
			if !math.IsNaN(beatLen) && beatLen < 0 {
				sv = 100.0 / -beatLen
			}
			b.TimingPoints = append(b.TimingPoints, TimingPoint{
				Time:                     t,
				BeatLength:               beatLen,
				TimingChange:             timingChange,
				SliderVelocityMultiplier: sv,
			})

		case secHitObjects:
			parts := strings.Split(line, ",")
			if len(parts) < 5 {
				continue
			}
			x := parseInt(parts[0], 0)
			y := parseInt(parts[1], 0)
			t := parseInt(parts[2], 0) + offset
			flags := HitObjectTypeFlags(parseInt(parts[3], 0))

			base := BaseHO{PosXY: Vec2{X: x, Y: y}, Time: t, Type: flags}

			switch {
			case (flags & TypeHold) != 0:
				// mania hold: "endTime:sample"
				end := t
				if len(parts) >= 6 {
					endStr, _, _ := strings.Cut(parts[5], ":")
					end = parseInt(endStr, t) + offset
				}
				b.HitObjects = append(b.HitObjects, Hold{BaseHO: base, EndTime: end})

			case (flags & TypeSpinner) != 0:
				end := t
				if len(parts) >= 6 && strings.TrimSpace(parts[5]) != "" {
					end = parseInt(parts[5], t) + offset
				}
				b.HitObjects = append(b.HitObjects, Spinner{BaseHO: base, EndTime: end})

			case (flags & TypeSlider) != 0:
				slides := 1
				if len(parts) >= 7 && strings.TrimSpace(parts[6]) != "" {
					slides = parseInt(parts[6], 1)
				}
				length := 0.0
				if len(parts) >= 8 && strings.TrimSpace(parts[7]) != "" {
					length = parseFloat(parts[7], 0)
				}
				b.HitObjects = append(b.HitObjects, Slider{
					BaseHO: base,
					Slides: slides,
					Length: length,
				})

			default:
				b.HitObjects = append(b.HitObjects, Circle{BaseHO: base})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	applyDifficultyRestrictions(&b.Difficulty, b.General.Mode)
	return b, nil
}

// ---------- parsing helpers ----------

func splitKeyVal(line string) (key, val string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseFloatAllowNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func applyDifficultyRestrictions(d *Difficulty, mode int) {
	d.HPDrainRate = clampFloat(d.HPDrainRate, 0, 10)
	d.OverallDifficulty = clampFloat(d.OverallDifficulty, 0, 10)
	d.ApproachRate = clampFloat(d.ApproachRate, 0, 10)
	if mode == 3 {
		d.CircleSize = clampFloat(d.CircleSize, 1, maxManiaKeyCount)
	} else {
		d.CircleSize = clampFloat(d.CircleSize, 0, 10)
	}
	d.SliderMultiplier = clampFloat(d.SliderMultiplier, 0.4, 3.6)
	d.SliderTickRate = clampFloat(d.SliderTickRate, 0.5, 8.0)
}

// Validate performs the minimal sanity checks a calculator relies on.
func (b *Beatmap) Validate() error {
	if len(b.HitObjects) == 0 {
		return errors.New("beatmap has no hit objects")
	}
	for i := 1; i < len(b.HitObjects); i++ {
		if b.HitObjects[i].StartTime() < b.HitObjects[i-1].StartTime() {
			return fmt.Errorf("hit objects out of order at index %d", i)
		}
	}
	return nil
}
