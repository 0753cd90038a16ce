package dbmeta

import (
	"fmt"
	"math"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	// schemaCache is the shared store gorm uses to avoid re-parsing models.
	schemaCache = &sync.Map{}
	namer       = schema.NamingStrategy{}

	tableNames sync.Map // type name -> string
	maxLengths sync.Map // type name -> map[string]int
	decimalMax sync.Map // type name -> map[string]float64
	dbNames    sync.Map // *gorm.DB -> string
)

func typeName(model interface{}) string {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

func parse(model interface{}) (*schema.Schema, error) {
	s, err := schema.Parse(model, schemaCache, namer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
	}
	return s, nil
}

// TableName returns the database table name for the entity type of model.
func TableName(model interface{}) (string, error) {
	key := typeName(model)
	if cached, ok := tableNames.Load(key); ok {
		return cached.(string), nil
	}

	s, err := parse(model)
	if err != nil {
		return "", err
	}

	tableNames.Store(key, s.Table)
	return s.Table, nil
}

// ColumnMaxLengths returns the maximum lengths of the entity's string
// columns, keyed by struct field name. Fields without a declared size are
// omitted.
func ColumnMaxLengths(model interface{}) (map[string]int, error) {
	key := typeName(model)
	if cached, ok := maxLengths.Load(key); ok {
		return cached.(map[string]int), nil
	}

	s, err := parse(model)
	if err != nil {
		return nil, err
	}

	lengths := make(map[string]int)
	for _, field := range s.Fields {
		if field.DataType == schema.String && field.Size > 0 {
			lengths[field.Name] = field.Size
		}
	}

	maxLengths.Store(key, lengths)
	return lengths, nil
}

// DecimalMaxValues returns the maximum value each decimal column of the
// entity can hold, keyed by struct field name. A column declared
// decimal(p,s) holds at most 10^(p-s) - 10^(-s).
func DecimalMaxValues(model interface{}) (map[string]float64, error) {
	key := typeName(model)
	if cached, ok := decimalMax.Load(key); ok {
		return cached.(map[string]float64), nil
	}

	s, err := parse(model)
	if err != nil {
		return nil, err
	}

	maxValues := make(map[string]float64)
	for _, field := range s.Fields {
		if field.Precision > 0 && field.Scale > 0 {
			maxValues[field.Name] = math.Pow10(field.Precision-field.Scale) - math.Pow(10, -float64(field.Scale))
		}
	}

	decimalMax.Store(key, maxValues)
	return maxValues, nil
}

// DatabaseName returns the name of the database the connection points at,
// memoized per connection.
func DatabaseName(db *gorm.DB) string {
	if cached, ok := dbNames.Load(db); ok {
		return cached.(string)
	}

	name := db.Migrator().CurrentDatabase()
	dbNames.Store(db, name)
	return name
}

// LoadOriginalCopy loads a fresh snapshot of the entity with the given
// primary key into dest, bypassing any instance the current session has
// loaded. The query runs in a new session so conditions and state from the
// caller's chain do not leak in.
func LoadOriginalCopy(db *gorm.DB, dest interface{}, pk interface{}) error {
	err := db.Session(&gorm.Session{NewDB: true}).First(dest, pk).Error
	if err != nil {
		return fmt.Errorf("failed to load original copy of %T: %w", dest, err)
	}
	return nil
}
