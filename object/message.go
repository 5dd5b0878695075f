// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package object

import (
	"slices"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Style selects the layout produced by FromMessage
type Style int

const (
	// StyleProtoc produces the intermediate protoc object layout: lowerCamel
	// keys, "List"/"Map" suffixes, map entries as Pairs and enums as numbers
	StyleProtoc Style = iota
	// StyleProto produces proto field names, native maps and enum value names,
	// matching the JSON produced by configtxlator
	StyleProto
)

const timestampFullName protoreflect.FullName = "google.protobuf.Timestamp"

// FromMessage converts a protobuf message into an Object. Every field of the
// message descriptor is present in the result, unset message fields as nil.
// Bytes fields are copied and left undecoded.
func FromMessage(msg proto.Message, style Style) Object {
	if msg == nil {
		return nil
	}
	return fromReflect(msg.ProtoReflect(), style)
}

func fromReflect(m protoreflect.Message, style Style) Object {
	if !m.IsValid() {
		return nil
	}
	ret := Object{}
	fields := m.Descriptor().Fields()
	for i := range fields.Len() {
		fd := fields.Get(i)
		// Only the populated member of a oneof is emitted
		if fd.ContainingOneof() != nil && !fd.ContainingOneof().IsSynthetic() &&
			!m.Has(fd) {
			continue
		}
		key := fieldName(fd, style)
		switch {
		case fd.IsMap():
			if style == StyleProtoc {
				ret[key+MapSuffix] = pairsValue(m.Get(fd).Map(), fd, style)
			} else {
				ret[key] = mapValue(m.Get(fd).Map(), fd, style)
			}
		case fd.IsList():
			if style == StyleProtoc {
				key += ListSuffix
			}
			ret[key] = listValue(m.Get(fd).List(), fd, style)
		case isMessage(fd):
			if !m.Has(fd) {
				ret[key] = nil
				continue
			}
			ret[key] = messageValue(m.Get(fd).Message(), style)
		default:
			ret[key] = scalarValue(fd, m.Get(fd), style)
		}
	}
	return ret
}

func fieldName(fd protoreflect.FieldDescriptor, style Style) string {
	if style == StyleProto {
		return string(fd.Name())
	}
	return fd.JSONName()
}

func isMessage(fd protoreflect.FieldDescriptor) bool {
	return fd.Kind() == protoreflect.MessageKind ||
		fd.Kind() == protoreflect.GroupKind
}

func messageValue(m protoreflect.Message, style Style) any {
	if m.Descriptor().FullName() == timestampFullName {
		return timestampValue(m)
	}
	return fromReflect(m, style)
}

// timestampValue renders a google.protobuf.Timestamp as an RFC 3339 string
func timestampValue(m protoreflect.Message) any {
	fields := m.Descriptor().Fields()
	seconds := m.Get(fields.ByName("seconds")).Int()
	nanos := m.Get(fields.ByName("nanos")).Int()
	return time.Unix(seconds, nanos).UTC().Format(time.RFC3339Nano)
}

func listValue(
	list protoreflect.List,
	fd protoreflect.FieldDescriptor,
	style Style,
) []any {
	ret := make([]any, 0, list.Len())
	for i := range list.Len() {
		if isMessage(fd) {
			ret = append(ret, messageValue(list.Get(i).Message(), style))
			continue
		}
		ret = append(ret, scalarValue(fd, list.Get(i), style))
	}
	return ret
}

// pairsValue returns map entries ordered by key. Go protobuf maps do not keep
// wire order, and a stable order keeps decoded documents comparable.
func pairsValue(
	m protoreflect.Map,
	fd protoreflect.FieldDescriptor,
	style Style,
) Pairs {
	ret := make(Pairs, 0, m.Len())
	valueFd := fd.MapValue()
	m.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		var val any
		if isMessage(valueFd) {
			val = messageValue(v.Message(), style)
		} else {
			val = scalarValue(valueFd, v, style)
		}
		ret = append(ret, Pair{Key: k.String(), Value: val})
		return true
	})
	slices.SortFunc(ret, func(a, b Pair) int {
		return strings.Compare(a.Key, b.Key)
	})
	return ret
}

func mapValue(
	m protoreflect.Map,
	fd protoreflect.FieldDescriptor,
	style Style,
) Object {
	ret := make(Object, m.Len())
	for _, pair := range pairsValue(m, fd, style) {
		ret[pair.Key] = pair.Value
	}
	return ret
}

func scalarValue(
	fd protoreflect.FieldDescriptor,
	v protoreflect.Value,
	style Style,
) any {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return v.Bool()
	case protoreflect.EnumKind:
		num := v.Enum()
		if style == StyleProto {
			if ev := fd.Enum().Values().ByNumber(num); ev != nil {
				return string(ev.Name())
			}
		}
		return int32(num)
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return int32(v.Int())
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return v.Int()
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return uint32(v.Uint())
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return v.Uint()
	case protoreflect.FloatKind:
		return float32(v.Float())
	case protoreflect.DoubleKind:
		return v.Float()
	case protoreflect.StringKind:
		return v.String()
	case protoreflect.BytesKind:
		return Bytes(v.Bytes())
	}
	return v.Interface()
}
