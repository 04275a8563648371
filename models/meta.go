package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// MetaKind 元数据值类型
type MetaKind int

const (
	MetaString MetaKind = iota + 1
	MetaNumber
	MetaBool
	MetaMap
)

// MetaValue 元数据的单个值，只允许字符串、数字、布尔和嵌套对象
type MetaValue struct {
	kind MetaKind
	str  string
	num  float64
	b    bool
	m    Meta
}

// Meta 开放式键值元数据（extra_info、quality_versions、headers、params）
type Meta map[string]MetaValue

// MetaJSON 数据库中的JSON列
type MetaJSON = datatypes.JSONType[Meta]

// NewMetaJSON 包装为可入库的JSON列
func NewMetaJSON(m Meta) MetaJSON {
	if m == nil {
		m = Meta{}
	}
	return datatypes.NewJSONType(m)
}

func String(s string) MetaValue { return MetaValue{kind: MetaString, str: s} }

func Number(n float64) MetaValue { return MetaValue{kind: MetaNumber, num: n} }

func Bool(b bool) MetaValue { return MetaValue{kind: MetaBool, b: b} }

func Object(m Meta) MetaValue { return MetaValue{kind: MetaMap, m: m} }

// Kind 值类型
func (v MetaValue) Kind() MetaKind { return v.kind }

// AsString 返回字符串值
func (v MetaValue) AsString() (string, bool) {
	return v.str, v.kind == MetaString
}

// AsNumber 返回数字值
func (v MetaValue) AsNumber() (float64, bool) {
	return v.num, v.kind == MetaNumber
}

// AsBool 返回布尔值
func (v MetaValue) AsBool() (bool, bool) {
	return v.b, v.kind == MetaBool
}

// AsMap 返回嵌套对象
func (v MetaValue) AsMap() (Meta, bool) {
	return v.m, v.kind == MetaMap
}

// MarshalJSON 实现 json.Marshaler
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetaString:
		return json.Marshal(v.str)
	case MetaNumber:
		return json.Marshal(v.num)
	case MetaBool:
		return json.Marshal(v.b)
	case MetaMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(map[string]MetaValue(v.m))
	}
	return nil, fmt.Errorf("元数据值未初始化")
}

// UnmarshalJSON 实现 json.Unmarshaler，拒绝数组和null
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("元数据值为空")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{':
		var m map[string]MetaValue
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*v = Object(Meta(m))
	case '[':
		return fmt.Errorf("元数据不支持数组")
	case 'n':
		return fmt.Errorf("元数据不支持null")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n)
	}
	return nil
}

// GetString 读取字符串字段
func (m Meta) GetString(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetMap 读取嵌套对象字段
func (m Meta) GetMap(key string) (Meta, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	return v.AsMap()
}

// StringMap 把所有字符串/数字/布尔值展开为字符串，嵌套对象忽略
func (m Meta) StringMap() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch v.kind {
		case MetaString:
			out[k] = v.str
		case MetaNumber:
			out[k] = fmt.Sprintf("%v", v.num)
		case MetaBool:
			out[k] = fmt.Sprintf("%t", v.b)
		}
	}
	return out
}
