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

// Package registry provides the read-only table of known Fabric message
// schemas used for name based decode resolution.
//
// A Registry is immutable once built and is safe for concurrent use.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

// DefaultNamespaces lists the Fabric protobuf packages in search order
var DefaultNamespaces = []string{
	"common",
	"orderer",
	"etcdraft",
	"orderer.smartbft",
	"msp",
	"protos",
	"lifecycle",
	"rwset",
	"kvrwset",
}

// ErrUnknownFields is returned by Unmarshal when the data carries fields the
// schema does not know about, which means it is most likely the wrong schema
var ErrUnknownFields = errors.New("data contains fields unknown to schema")

// UnknownMessageError indicates a lookup for a message name not in the registry
type UnknownMessageError struct {
	Name string
}

func (e UnknownMessageError) Error() string {
	return fmt.Sprintf("unknown message: %s", e.Name)
}

type entry struct {
	desc protoreflect.MessageDescriptor
	// nil for schemas known only by descriptor
	msgType protoreflect.MessageType
}

// Registry maps fully-qualified message names to their schemas
type Registry struct {
	namespaces []string
	types      *protoregistry.Types
	files      *protoregistry.Files
	byFullName map[protoreflect.FullName]entry
}

type RegistryOptionFunc func(*Registry)

// WithNamespaces restricts the registry to the given protobuf packages, in
// the order FindByName searches them
func WithNamespaces(namespaces ...string) RegistryOptionFunc {
	return func(r *Registry) {
		r.namespaces = slices.Clone(namespaces)
	}
}

// WithTypes sets the source of generated message types
func WithTypes(types *protoregistry.Types) RegistryOptionFunc {
	return func(r *Registry) {
		r.types = types
	}
}

// WithFiles adds message schemas from file descriptors. Messages which have no
// generated type are decoded with dynamicpb.
func WithFiles(files *protoregistry.Files) RegistryOptionFunc {
	return func(r *Registry) {
		r.files = files
	}
}

// New builds a registry. With no options it indexes the Fabric namespaces
// from the global protobuf type registry.
func New(opts ...RegistryOptionFunc) *Registry {
	r := &Registry{
		namespaces: slices.Clone(DefaultNamespaces),
		types:      protoregistry.GlobalTypes,
		byFullName: make(map[protoreflect.FullName]entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.files != nil {
		r.files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
			r.addMessages(fd.Messages())
			return true
		})
	}
	if r.types != nil {
		r.types.RangeMessages(func(mt protoreflect.MessageType) bool {
			desc := mt.Descriptor()
			if r.inNamespace(desc.FullName()) {
				r.byFullName[desc.FullName()] = entry{desc: desc, msgType: mt}
			}
			return true
		})
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry of Fabric messages, built on first use
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

func (r *Registry) addMessages(msgs protoreflect.MessageDescriptors) {
	for i := range msgs.Len() {
		desc := msgs.Get(i)
		if r.inNamespace(desc.FullName()) {
			if _, ok := r.byFullName[desc.FullName()]; !ok {
				r.byFullName[desc.FullName()] = entry{desc: desc}
			}
		}
		r.addMessages(desc.Messages())
	}
}

func (r *Registry) inNamespace(name protoreflect.FullName) bool {
	return slices.Contains(r.namespaces, string(name.Parent()))
}

// Namespaces returns the searched protobuf packages in order
func (r *Registry) Namespaces() []string {
	return slices.Clone(r.namespaces)
}

// Len returns the number of known messages
func (r *Registry) Len() int {
	return len(r.byFullName)
}

// FindMessage looks up a message by its fully-qualified name
func (r *Registry) FindMessage(
	fullName protoreflect.FullName,
) (protoreflect.MessageDescriptor, bool) {
	e, ok := r.byFullName[fullName]
	if !ok {
		return nil, false
	}
	return e.desc, true
}

// FindByName searches each namespace in order for a message with the given
// short name
func (r *Registry) FindByName(name string) (protoreflect.MessageDescriptor, bool) {
	if name == "" {
		return nil, false
	}
	for _, ns := range r.namespaces {
		fullName := protoreflect.FullName(ns).Append(protoreflect.Name(name))
		if desc, ok := r.FindMessage(fullName); ok {
			return desc, true
		}
	}
	return nil, false
}

// NewMessage returns an empty message for the given name
func (r *Registry) NewMessage(fullName protoreflect.FullName) (proto.Message, error) {
	e, ok := r.byFullName[fullName]
	if !ok {
		return nil, UnknownMessageError{Name: string(fullName)}
	}
	if e.msgType != nil {
		return e.msgType.New().Interface(), nil
	}
	return dynamicpb.NewMessage(e.desc), nil
}

// Unmarshal decodes data as the named message. Data which leaves unknown
// fields behind is rejected with ErrUnknownFields.
func (r *Registry) Unmarshal(
	fullName protoreflect.FullName,
	data []byte,
) (proto.Message, error) {
	msg, err := r.NewMessage(fullName)
	if err != nil {
		return nil, err
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fullName, err)
	}
	if hasUnknown(msg.ProtoReflect()) {
		return nil, fmt.Errorf("decode %s: %w", fullName, ErrUnknownFields)
	}
	return msg, nil
}

// hasUnknown reports whether m or any message nested in it carries unknown fields
func hasUnknown(m protoreflect.Message) bool {
	if len(m.GetUnknown()) > 0 {
		return true
	}
	found := false
	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		switch {
		case fd.IsMap():
			if fd.MapValue().Message() == nil {
				return true
			}
			v.Map().Range(func(_ protoreflect.MapKey, mv protoreflect.Value) bool {
				found = hasUnknown(mv.Message())
				return !found
			})
		case fd.IsList():
			if fd.Message() == nil {
				return true
			}
			list := v.List()
			for i := 0; i < list.Len() && !found; i++ {
				found = hasUnknown(list.Get(i).Message())
			}
		case fd.Message() != nil:
			found = hasUnknown(v.Message())
		}
		return !found
	})
	return found
}
