// Package refdata loads the static reference tables used by the footprint
// engine: foundation-model training totals, datacenter PUE and grid intensity,
// AI task energy profiles, device specifications and calibration constants.
//
// Tables are parsed once into an immutable *Catalog which is passed
// explicitly to every consumer. Nothing in this package holds global state.
package refdata

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// File names shared by the embedded data set and override directories.
const (
	fileModels      = "foundation_models.csv"
	fileDatacenters = "datacenters.csv"
	fileTasks       = "ai_tasks.csv"
	fileDevices     = "devices.csv"
	fileCalibration = "calibration.yaml"
)

//go:embed data/*.csv data/calibration.yaml
var embedded embed.FS

// Catalog is the read-only reference data set. All accessors return copies.
type Catalog struct {
	models      map[string]ModelTraining
	datacenters []Datacenter
	tasks       map[string]AITask
	taskOrder   []string
	devices     map[DeviceCategory]DeviceSpec
	calibration Calibration
}

// Load builds a Catalog from the data set compiled into the binary.
func Load(logger zerolog.Logger) (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded reference data: %w", err)
	}
	return load(sub, nil, logger)
}

// LoadDir builds a Catalog from the files in dir. Files that are absent from
// dir fall back to the embedded copies, so a directory may override only the
// calibration or only the datacenter list.
func LoadDir(dir string, logger zerolog.Logger) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reference data path %s is not a directory", dir)
	}
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded reference data: %w", err)
	}
	return load(sub, os.DirFS(dir), logger.With().Str("data_dir", filepath.Clean(dir)).Logger())
}

// MustLoad is Load for tests and static initialization; it panics on error.
func MustLoad() *Catalog {
	c, err := Load(zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return c
}

// Tables is a literal data set, used to build a Catalog from fixtures.
type Tables struct {
	Models      []ModelTraining
	Datacenters []Datacenter
	Tasks       []AITask
	Devices     map[DeviceCategory]DeviceSpec

	// Calibration defaults to DefaultCalibration when nil.
	Calibration *Calibration
}

// New builds a Catalog from in-memory tables. Rows are copied; later changes
// to t do not affect the catalog.
func New(t Tables) *Catalog {
	c := &Catalog{
		models:      make(map[string]ModelTraining, len(t.Models)),
		datacenters: append([]Datacenter(nil), t.Datacenters...),
		tasks:       make(map[string]AITask, len(t.Tasks)),
		devices:     make(map[DeviceCategory]DeviceSpec, len(t.Devices)),
		calibration: DefaultCalibration(),
	}
	for _, m := range t.Models {
		c.models[modelKey(m.Name)] = m
	}
	for _, task := range t.Tasks {
		if _, dup := c.tasks[task.ID]; !dup {
			c.taskOrder = append(c.taskOrder, task.ID)
		}
		c.tasks[task.ID] = task
	}
	for category, spec := range t.Devices {
		c.devices[category] = spec
	}
	if t.Calibration != nil {
		c.calibration = *t.Calibration
		c.calibration.LabelThresholdsKg = append([]float64(nil), t.Calibration.LabelThresholdsKg...)
	}
	return c
}

func load(base, override fs.FS, logger zerolog.Logger) (*Catalog, error) {
	read := func(name string) ([]byte, error) {
		if override != nil {
			data, err := fs.ReadFile(override, name)
			if err == nil {
				logger.Debug().Str("file", name).Msg("using reference data override")
				return data, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read %s: %w", name, err)
			}
		}
		data, err := fs.ReadFile(base, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}

	c := &Catalog{}

	data, err := read(fileModels)
	if err != nil {
		return nil, err
	}
	if c.models, err = parseModels(bytes.NewReader(data), logger); err != nil {
		return nil, err
	}

	if data, err = read(fileDatacenters); err != nil {
		return nil, err
	}
	if c.datacenters, err = parseDatacenters(bytes.NewReader(data), logger); err != nil {
		return nil, err
	}

	if data, err = read(fileTasks); err != nil {
		return nil, err
	}
	tasks, err := parseTasks(bytes.NewReader(data), logger)
	if err != nil {
		return nil, err
	}
	c.tasks = make(map[string]AITask, len(tasks))
	for _, t := range tasks {
		if _, dup := c.tasks[t.ID]; !dup {
			c.taskOrder = append(c.taskOrder, t.ID)
		}
		c.tasks[t.ID] = t
	}

	if data, err = read(fileDevices); err != nil {
		return nil, err
	}
	if c.devices, err = parseDevices(bytes.NewReader(data), logger); err != nil {
		return nil, err
	}

	if data, err = read(fileCalibration); err != nil {
		return nil, err
	}
	if c.calibration, err = ParseCalibration(data); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("models", len(c.models)).
		Int("datacenters", len(c.datacenters)).
		Int("tasks", len(c.tasks)).
		Int("devices", len(c.devices)).
		Msg("reference data loaded")

	return c, nil
}

// Calibration returns the engine coefficients.
func (c *Catalog) Calibration() Calibration {
	cal := c.calibration
	cal.LabelThresholdsKg = append([]float64(nil), c.calibration.LabelThresholdsKg...)
	return cal
}

// ModelTraining looks up a foundation model by name, ignoring case.
func (c *Catalog) ModelTraining(name string) (ModelTraining, error) {
	m, ok := c.models[modelKey(name)]
	if !ok {
		return ModelTraining{}, NewLookupError("foundation model", name)
	}
	return m, nil
}

// Models returns all foundation models sorted by name.
func (c *Catalog) Models() []ModelTraining {
	out := make([]ModelTraining, 0, len(c.models))
	for _, m := range c.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Datacenter returns the region of provider whose name matches region (case-insensitive).
func (c *Catalog) Datacenter(provider CloudProvider, region string) (Datacenter, error) {
	region = strings.TrimSpace(region)
	for _, dc := range c.datacenters {
		if dc.Provider == provider && strings.EqualFold(dc.Region, region) {
			return dc, nil
		}
	}
	return Datacenter{}, NewLookupError("datacenter", string(provider)+"/"+region)
}

// Datacenters returns the regions of provider in file order.
// An empty provider returns every region.
func (c *Catalog) Datacenters(provider CloudProvider) []Datacenter {
	var out []Datacenter
	for _, dc := range c.datacenters {
		if provider == "" || dc.Provider == provider {
			out = append(out, dc)
		}
	}
	return out
}

// Task returns the AI task profile with the given id.
func (c *Catalog) Task(id string) (AITask, error) {
	t, ok := c.tasks[strings.TrimSpace(id)]
	if !ok {
		return AITask{}, NewLookupError("ai task", id)
	}
	return t, nil
}

// Tasks returns all task profiles in file order.
func (c *Catalog) Tasks() []AITask {
	out := make([]AITask, 0, len(c.taskOrder))
	for _, id := range c.taskOrder {
		out = append(out, c.tasks[id])
	}
	return out
}

// Device returns the power and embodied-carbon figures for a device category.
func (c *Catalog) Device(category DeviceCategory) (DeviceSpec, error) {
	spec, ok := c.devices[category]
	if !ok {
		return DeviceSpec{}, NewLookupError("device category", string(category))
	}
	return spec, nil
}
