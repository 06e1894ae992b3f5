package entity

import (
	"database/sql"
	"database/sql/driver"
	"reflect"
	"strings"
	"sync"
	"time"
)

const (
	tagName       = "orm"
	tagKeyColumn  = "column"
	tagKeyPath    = "path"
	tagKeyType    = "type"
	tagSkipMarker = "-"
)

// TableName lets an entity struct choose its table name.
type TableName interface {
	TableName() string
}

// Registry parses and caches models for Go struct types.
type Registry interface {
	// Get returns the model for val, parsing it on first use.
	Get(val any) (*Model, error)

	// Register parses val, applies opts and stores the result.
	Register(val any, opts ...Option) (*Model, error)
}

type registry struct {
	// models is keyed by reflect.Type so equally named types in
	// different packages never collide.
	models sync.Map
}

// NewRegistry returns an empty Registry safe for concurrent use.
func NewRegistry() Registry {
	return &registry{}
}

func (r *registry) Get(val any) (*Model, error) {
	if m, ok := r.models.Load(reflect.TypeOf(val)); ok {
		return m.(*Model), nil
	}
	return r.Register(val)
}

func (r *registry) Register(val any, opts ...Option) (*Model, error) {
	m, err := parseModel(val, opts...)
	if err != nil {
		return nil, err
	}
	r.models.Store(reflect.TypeOf(val), m)
	return m, nil
}

var (
	timeType       = reflect.TypeOf(time.Time{})
	bytesType      = reflect.TypeOf([]byte(nil))
	valuerType     = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	nullableScalar = map[reflect.Type]Type{
		reflect.TypeOf(sql.NullString{}):  TypeString,
		reflect.TypeOf(sql.NullInt64{}):   TypeInt,
		reflect.TypeOf(sql.NullInt32{}):   TypeInt,
		reflect.TypeOf(sql.NullInt16{}):   TypeInt,
		reflect.TypeOf(sql.NullFloat64{}): TypeFloat,
		reflect.TypeOf(sql.NullBool{}):    TypeBool,
		reflect.TypeOf(sql.NullTime{}):    TypeTime,
	}
)

// parseModel turns a pointer to struct into a Model.
// orm:"column=c,path=p,type=t" overrides defaults; orm:"-" skips a field.
func parseModel(val any, opts ...Option) (*Model, error) {
	typ := reflect.TypeOf(val)
	if typ == nil || typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return nil, ErrPointerOnly
	}
	typ = typ.Elem()

	var props []Property
	if err := walkStruct(typ, "", &props); err != nil {
		return nil, err
	}

	if tn, ok := val.(TableName); ok && tn.TableName() != "" {
		opts = append([]Option{WithTableName(tn.TableName())}, opts...)
	}
	return NewModel(typ.Name(), props, opts...)
}

func walkStruct(typ reflect.Type, prefix string, props *[]Property) error {
	for i := 0; i < typ.NumField(); i++ {
		fd := typ.Field(i)
		if !fd.IsExported() && !(fd.Anonymous && fd.Type.Kind() == reflect.Struct) {
			continue
		}
		tags, skip, err := parseTag(fd.Tag)
		if err != nil {
			return err
		}
		if skip {
			continue
		}

		ft := fd.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		if isNested(ft) {
			nestedPrefix := prefix
			if !fd.Anonymous {
				name := tags[tagKeyPath]
				if name == "" {
					name = lowerFirst(fd.Name)
				}
				nestedPrefix = prefix + name + "."
			}
			if err := walkStruct(ft, nestedPrefix, props); err != nil {
				return err
			}
			continue
		}

		path := tags[tagKeyPath]
		if path == "" {
			path = lowerFirst(fd.Name)
		}
		column := tags[tagKeyColumn]
		if column == "" {
			column = columnName(prefix + lowerFirst(fd.Name))
		}
		typeName := typeOf(ft)
		if t, ok := tags[tagKeyType]; ok {
			if typeName, err = ParseType(t); err != nil {
				return err
			}
		}
		*props = append(*props, Property{Path: prefix + path, Column: column, Type: typeName})
	}
	return nil
}

// isNested reports whether a struct field contributes nested paths
// instead of a single column.
func isNested(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	if _, ok := nullableScalar[t]; ok {
		return false
	}
	return !t.Implements(valuerType) && !reflect.PointerTo(t).Implements(valuerType)
}

func typeOf(t reflect.Type) Type {
	if st, ok := nullableScalar[t]; ok {
		return st
	}
	switch {
	case t == timeType:
		return TypeTime
	case t == bytesType:
		return TypeBytes
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInt
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	default:
		return TypeAny
	}
}

// parseTag parses orm:"key1=value1,key2=value2". The bare value "-" skips the field.
func parseTag(tag reflect.StructTag) (map[string]string, bool, error) {
	ormTag, ok := tag.Lookup(tagName)
	if !ok || ormTag == "" {
		return map[string]string{}, false, nil
	}
	if ormTag == tagSkipMarker {
		return nil, true, nil
	}

	res := make(map[string]string, 2)
	for _, pair := range strings.Split(ormTag, ",") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return nil, false, newErrInvalidTagContent(pair)
		}
		switch kv[0] {
		case tagKeyColumn, tagKeyPath, tagKeyType:
			res[kv[0]] = kv[1]
		default:
			return nil, false, newErrUnknownTagKey(kv[0])
		}
	}
	return res, false, nil
}
