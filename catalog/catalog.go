package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// Catalog names the in-memory tables that Source plan nodes read from and provides fast lookups.
// For simplicity, the catalog is serialized as a single JSON blob that carries both the schema and the data of
// every source. Sources are immutable once added: the optimizer narrows views over a table but never changes
// it, so a plan built against the catalog stays valid for as long as the process runs.
type Catalog struct {
	catalogState

	// In-memory structures for fast lookups
	sourceMap map[string]*Source   // SourceName -> Source
	columnMap map[string][]*Source // ColumnName -> List of Sources containing this column
}

// Column is one column of a persisted source. Values holds the JSON form of every row (nil for NULL).
type Column struct {
	Name   string      `json:"name"`
	Type   common.Type `json:"type"`
	Values []any       `json:"values"`
}

// SourceID is a catalog-wide unique identifier. 0 is reserved for INVALID.
type SourceID uint32

// Source is the catalog entry of a named table.
type Source struct {
	Oid     SourceID `json:"oid"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`

	table *storage.ColumnTable
}

// PersistenceProvider abstracts how the catalog is saved to and loaded from disk.
type PersistenceProvider interface {
	LoadCatalogState() (json string, err error)
	SaveCatalogState(json string) error
}

// Table returns the data of the source.
func (s *Source) Table() *storage.ColumnTable {
	return s.table
}

// Schema returns the names and types of the source columns.
func (s *Source) Schema() []planner.Column {
	out := make([]planner.Column, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = planner.Column{Name: c.Name, Type: c.Type}
	}
	return out
}

func (s *Source) String() string {
	return fmt.Sprintf("%s(%v) %d rows", s.Name, s.Schema(), s.table.NumRows())
}

type catalogState struct {
	NextId  uint32    `json:"next_id"`
	Sources []*Source `json:"sources"`
}

func newCatalog() *Catalog {
	return &Catalog{
		catalogState: catalogState{
			NextId:  0,
			Sources: make([]*Source, 0),
		},
		sourceMap: make(map[string]*Source),
		columnMap: make(map[string][]*Source),
	}
}

func (c *Catalog) toJSON() (string, error) {
	b, err := json.MarshalIndent(c.catalogState, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Catalog) fromJSON(jsonData string) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(jsonData)))
	dec.UseNumber()
	if err := dec.Decode(&c.catalogState); err != nil {
		return err
	}
	for _, s := range c.Sources {
		table, err := decodeTable(s.Columns)
		if err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
		s.table = table
		c.index(s)
	}
	return nil
}

func (c *Catalog) index(s *Source) {
	c.sourceMap[s.Name] = s
	for _, f := range s.Columns {
		c.columnMap[f.Name] = append(c.columnMap[f.Name], s)
	}
}

// New returns an empty catalog that is never persisted.
func New() *Catalog {
	return newCatalog()
}

// NewCatalog initializes a catalog. It attempts to load existing state
// from the provider; if no state exists, it starts with no sources.
func NewCatalog(provider PersistenceProvider) (*Catalog, error) {
	result := newCatalog()

	jsonData, err := provider.LoadCatalogState()
	if errors.Is(err, os.ErrNotExist) {
		// Start from scratch
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if err = result.fromJSON(jsonData); err != nil {
		// Parsing errors are fatal, usually indicating a hand-edited or truncated file
		return nil, fmt.Errorf("failed to parse catalog state: %w", err)
	}

	return result, nil
}

// AddSource registers table under name and assigns it a unique SourceID. If a source with that name already
// exists, it returns DuplicateObjectError. A nil provider keeps the catalog in memory only.
func (c *Catalog) AddSource(name string, table *storage.ColumnTable, provider PersistenceProvider) (*Source, error) {
	if _, exists := c.sourceMap[name]; exists {
		return nil, common.NewPlanError(common.DuplicateObjectError, "source '%s' already exists", name)
	}

	// oid 0 is reserved for INVALID
	c.NextId++

	s := &Source{
		Oid:     SourceID(c.NextId),
		Name:    name,
		Columns: encodeTable(table),
		table:   table,
	}
	c.Sources = append(c.Sources, s)
	c.index(s)

	if provider == nil {
		return s, nil
	}
	jsonData, err := c.toJSON()
	if err != nil {
		return nil, err
	}
	return s, provider.SaveCatalogState(jsonData)
}

// GetSource fetches the entry for a specific source name.
func (c *Catalog) GetSource(name string) (*Source, error) {
	s, exists := c.sourceMap[name]
	if !exists {
		return nil, common.NewPlanError(common.NoSuchObjectError, "source '%s' does not exist", name)
	}
	return s, nil
}

// NewSourceNode returns a plan leaf reading every column and row of the named source.
func (c *Catalog) NewSourceNode(name string) (*planner.SourceNode, error) {
	s, err := c.GetSource(name)
	if err != nil {
		return nil, err
	}
	return planner.NewSourceNode(s.Name, s.table), nil
}

// FindSourcesWithColumnName returns all sources that contain a column with the given name.
func (c *Catalog) FindSourcesWithColumnName(columnName string) []*Source {
	return c.columnMap[columnName]
}

// NumSources returns the number of registered sources.
func (c *Catalog) NumSources() int {
	return len(c.Sources)
}

func encodeTable(table *storage.ColumnTable) []Column {
	cols := make([]Column, table.NumColumns())
	for i := range cols {
		src := table.Column(i)
		values := make([]any, len(src.Values))
		for j, v := range src.Values {
			values[j] = EncodeValue(v)
		}
		cols[i] = Column{Name: src.Name, Type: src.Type, Values: values}
	}
	return cols
}

func decodeTable(cols []Column) (*storage.ColumnTable, error) {
	out := make([]storage.Column, len(cols))
	for i, c := range cols {
		values := make([]common.Value, len(c.Values))
		for j, raw := range c.Values {
			v, err := DecodeValue(c.Type, raw)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", c.Name, j, err)
			}
			values[j] = v
		}
		out[i] = storage.Column{Name: c.Name, Type: c.Type, Values: values}
	}
	return storage.NewColumnTable(out...)
}

const CatalogFileName = "catalog.json"

type DiskCatalogManager struct {
	rootPath string
}

func NewDiskCatalogManager(rootPath string) *DiskCatalogManager {
	return &DiskCatalogManager{
		rootPath: rootPath,
	}
}

// LoadCatalogState implements the catalog.PersistenceProvider interface.
func (dcm *DiskCatalogManager) LoadCatalogState() (string, error) {
	path := filepath.Join(dcm.rootPath, CatalogFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err // Let the caller (Catalog) handle os.ErrNotExist
	}
	return string(content), nil
}

// SaveCatalogState implements the catalog.PersistenceProvider interface.
func (dcm *DiskCatalogManager) SaveCatalogState(jsonData string) error {
	// write to a temporary file and rename it over the old state
	tmpPath := filepath.Join(dcm.rootPath, CatalogFileName+".tmp")
	finalPath := filepath.Join(dcm.rootPath, CatalogFileName)

	if err := os.WriteFile(tmpPath, []byte(jsonData), 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, finalPath)
}
