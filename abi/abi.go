// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package abi

import (
	"fmt"
	"strconv"

	"github.com/digigaia/kudu-go/bytestream"
	"github.com/digigaia/kudu-go/jsonval"
	"github.com/digigaia/kudu-go/types"
)

// maxRecursionDepth bounds the walker against deeply nested or adversarial
// type expressions.
const maxRecursionDepth = 32

type structSpec struct {
	name string
	// fields of the whole base chain, root first, followed by the
	// struct's own fields
	fields []FieldDef
}

// ABI is a compiled schema: alias chains flattened, struct base chains
// resolved into ordered field lists, variant branch tables recorded, and
// every referenced type name verified to resolve. An ABI is immutable
// after compilation and safe to share across goroutines.
type ABI struct {
	typedefs map[string]string
	structs  map[string]*structSpec
	variants map[string][]string
	actions  map[string]string // action name -> payload struct type
	tables   map[string]string // table name -> row struct type
}

// NewABI compiles a parsed definition, rejecting alias cycles,
// inheritance cycles, duplicate fields, misplaced binary extensions and
// unresolvable type names.
func NewABI(def *Definition) (*ABI, error) {
	if err := checkVersion(def.Version); err != nil {
		return nil, err
	}

	a := &ABI{
		typedefs: make(map[string]string),
		structs:  make(map[string]*structSpec),
		variants: make(map[string][]string),
		actions:  make(map[string]string),
		tables:   make(map[string]string),
	}

	rawAliases := make(map[string]string, len(def.Types))
	for _, td := range def.Types {
		if _, exists := rawAliases[td.NewTypeName]; exists {
			return nil, &IntegrityError{Message: fmt.Sprintf("duplicate type alias: %q", td.NewTypeName)}
		}
		rawAliases[td.NewTypeName] = td.Type
	}

	// chase every alias chain to its fixed point
	for alias := range rawAliases {
		target := rawAliases[alias]
		seen := map[string]bool{alias: true}
		for {
			if seen[target] {
				return nil, &IntegrityError{Message: fmt.Sprintf("circular reference in type %q", alias)}
			}
			seen[target] = true
			next, ok := rawAliases[target]
			if !ok {
				break
			}
			target = next
		}
		a.typedefs[alias] = target
	}

	rawStructs := make(map[string]*StructDef, len(def.Structs))
	for i := range def.Structs {
		s := &def.Structs[i]
		if _, exists := rawStructs[s.Name]; exists {
			return nil, &IntegrityError{Message: fmt.Sprintf("duplicate struct: %q", s.Name)}
		}
		rawStructs[s.Name] = s
	}

	for name := range rawStructs {
		fields, err := flattenStruct(rawStructs, name)
		if err != nil {
			return nil, err
		}
		a.structs[name] = &structSpec{name: name, fields: fields}
	}

	for _, v := range def.Variants {
		if _, exists := a.variants[v.Name]; exists {
			return nil, &IntegrityError{Message: fmt.Sprintf("duplicate variant: %q", v.Name)}
		}
		a.variants[v.Name] = v.Types
	}

	for _, action := range def.Actions {
		a.actions[action.Name] = action.Type
	}
	for _, table := range def.Tables {
		a.tables[table.Name] = table.Type
	}

	if err := a.checkIntegrity(def); err != nil {
		return nil, err
	}
	return a, nil
}

// NewABIFromJSON parses and compiles an ABI in one step.
func NewABIFromJSON(s string) (*ABI, error) {
	def, err := DefinitionFromJSON(s)
	if err != nil {
		return nil, err
	}
	return NewABI(def)
}

// NewABIFromHex parses and compiles an ABI from its hex binary form.
func NewABIFromHex(s string) (*ABI, error) {
	def, err := DefinitionFromHexABI(s)
	if err != nil {
		return nil, err
	}
	return NewABI(def)
}

func flattenStruct(structs map[string]*StructDef, name string) ([]FieldDef, error) {
	// walk the base chain root-first
	var chain []*StructDef
	seen := map[string]bool{}
	for cur := name; cur != ""; {
		if seen[cur] {
			return nil, &IntegrityError{Message: fmt.Sprintf("circular reference in struct %q", name)}
		}
		seen[cur] = true
		s, ok := structs[cur]
		if !ok {
			return nil, &IntegrityError{Message: fmt.Sprintf("struct %q has unknown base %q", name, cur)}
		}
		chain = append([]*StructDef{s}, chain...)
		cur = s.Base
	}

	var fields []FieldDef
	names := map[string]bool{}
	for _, s := range chain {
		for _, f := range s.Fields {
			if names[f.Name] {
				return nil, &IntegrityError{Message: fmt.Sprintf("duplicate field %q in struct %q", f.Name, name)}
			}
			names[f.Name] = true
			fields = append(fields, f)
		}
	}

	// binary extensions may only appear on a trailing run of fields
	sawExtension := false
	for _, f := range fields {
		if TypeName(f.Type).HasBinExtension() {
			sawExtension = true
		} else if sawExtension {
			return nil, &IntegrityError{
				Message: fmt.Sprintf("field %q in struct %q follows a binary extension but is not one itself", f.Name, name),
			}
		}
	}
	return fields, nil
}

// checkIntegrity verifies that every type name referenced anywhere in the
// definition resolves to a built-in type, a struct or a variant.
func (a *ABI) checkIntegrity(def *Definition) error {
	check := func(context, typename string) error {
		if !a.resolvesToValidType(typename) {
			return &IntegrityError{Message: fmt.Sprintf("%s references unknown type %q", context, typename)}
		}
		return nil
	}

	for alias, target := range a.typedefs {
		if err := check(fmt.Sprintf("alias %q", alias), target); err != nil {
			return err
		}
	}
	for name, spec := range a.structs {
		for _, f := range spec.fields {
			if err := check(fmt.Sprintf("field %q of struct %q", f.Name, name), f.Type); err != nil {
				return err
			}
		}
	}
	for name, branches := range a.variants {
		if len(branches) == 0 {
			return &IntegrityError{Message: fmt.Sprintf("variant %q has no alternative types", name)}
		}
		for _, branch := range branches {
			if err := check(fmt.Sprintf("variant %q", name), branch); err != nil {
				return err
			}
		}
	}
	for name, typ := range a.actions {
		if err := check(fmt.Sprintf("action %q", name), typ); err != nil {
			return err
		}
	}
	for name, typ := range a.tables {
		if err := check(fmt.Sprintf("table %q", name), typ); err != nil {
			return err
		}
	}
	for _, ar := range def.ActionResults {
		if err := check(fmt.Sprintf("action result %q", ar.Name), ar.ResultType); err != nil {
			return err
		}
	}
	for name, kv := range def.KvTables {
		if err := check(fmt.Sprintf("kv table %q", name), kv.Type); err != nil {
			return err
		}
	}
	return nil
}

func (a *ABI) resolvesToValidType(typename string) bool {
	tn := TypeName(typename).RemoveBinExtension()
	for depth := 0; depth < maxRecursionDepth; depth++ {
		if target, ok := a.typedefs[string(tn)]; ok {
			tn = TypeName(target)
			continue
		}
		if stripped := tn.FundamentalType(); stripped != tn {
			tn = stripped
			continue
		}
		break
	}
	if _, ok := types.TypeByName(string(tn)); ok {
		return true
	}
	if _, ok := a.structs[string(tn)]; ok {
		return true
	}
	_, ok := a.variants[string(tn)]
	return ok
}

// HasType reports whether the ABI declares the given name as a struct,
// variant, alias or action payload. The registry uses it to find an ABI
// for a bare type name.
func (a *ABI) HasType(typename string) bool {
	base := TypeName(typename).RemoveBinExtension()
	for {
		stripped := base.FundamentalType()
		if stripped == base {
			break
		}
		base = stripped
	}
	if _, ok := a.structs[string(base)]; ok {
		return true
	}
	if _, ok := a.variants[string(base)]; ok {
		return true
	}
	if _, ok := a.typedefs[string(base)]; ok {
		return true
	}
	_, ok := a.actions[string(base)]
	return ok
}

// ActionType returns the payload type of the given action.
func (a *ABI) ActionType(action string) (string, bool) {
	t, ok := a.actions[action]
	return t, ok
}

// TableType returns the row type of the given table.
func (a *ABI) TableType(table string) (string, bool) {
	t, ok := a.tables[table]
	return t, ok
}

// resolveAlias chases a (flattened) alias chain.
func (a *ABI) resolveAlias(tn TypeName) TypeName {
	if target, ok := a.typedefs[string(tn)]; ok {
		return TypeName(target)
	}
	return tn
}

func sizedArrayLen(tn TypeName) (int, error) {
	open := -1
	for i := len(tn) - 1; i >= 0; i-- {
		if tn[i] == '[' {
			open = i
			break
		}
	}
	n, err := strconv.Atoi(string(tn[open+1 : len(tn)-1]))
	if err != nil {
		return 0, &IntegrityError{Message: fmt.Sprintf("invalid sized array type %q", tn)}
	}
	return n, nil
}

// -----------------------------------------------------------------------------
//     Encoder
// -----------------------------------------------------------------------------

// EncodeVariant encodes the JSON value v as the named type, appending the
// binary form to the stream. On failure the stream may contain a prefix of
// the intended bytes; callers must discard it.
func (a *ABI) EncodeVariant(bs *bytestream.ByteStream, typename string, v any) error {
	return a.encode(bs, TypeName(typename), v, 0)
}

func (a *ABI) encode(bs *bytestream.ByteStream, tn TypeName, v any, depth int) error {
	if depth > maxRecursionDepth {
		return &EncodeError{Message: fmt.Sprintf("recursion depth limit %d exceeded while encoding %q", maxRecursionDepth, tn)}
	}

	// a binary extension encodes as its inner type; presence is the
	// enclosing struct's business
	tn = a.resolveAlias(tn.RemoveBinExtension())

	switch {
	case tn.IsOptional():
		if v == nil {
			_ = bs.WriteByte(0)
			return nil
		}
		_ = bs.WriteByte(1)
		return a.encode(bs, tn.FundamentalType(), v, depth+1)

	case tn.IsArray():
		arr, ok := v.([]any)
		if !ok {
			return &EncodeError{Message: fmt.Sprintf("expected array for type %q, got: %v", tn, v)}
		}
		types.WriteVarUint32(bs, uint32(len(arr)))
		inner := tn.FundamentalType()
		for _, elem := range arr {
			if err := a.encode(bs, inner, elem, depth+1); err != nil {
				return err
			}
		}
		return nil

	case tn.IsSizedArray():
		arr, ok := v.([]any)
		if !ok {
			return &EncodeError{Message: fmt.Sprintf("expected array for type %q, got: %v", tn, v)}
		}
		n, err := sizedArrayLen(tn)
		if err != nil {
			return err
		}
		if len(arr) != n {
			return &EncodeError{Message: fmt.Sprintf("expected %d elements for type %q, got %d", n, tn, len(arr))}
		}
		inner := tn.FundamentalType()
		for _, elem := range arr {
			if err := a.encode(bs, inner, elem, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if branches, ok := a.variants[string(tn)]; ok {
		return a.encodeVariantSum(bs, tn, branches, v, depth)
	}
	if spec, ok := a.structs[string(tn)]; ok {
		return a.encodeStruct(bs, spec, v, depth)
	}
	if t, ok := types.TypeByName(string(tn)); ok {
		value, err := types.FromVariant(t, v)
		if err != nil {
			return &EncodeError{Message: fmt.Sprintf("cannot convert value to %q", tn), Err: err}
		}
		value.Pack(bs)
		return nil
	}
	return &EncodeError{Message: fmt.Sprintf("unknown type: %q", tn)}
}

func (a *ABI) encodeVariantSum(bs *bytestream.ByteStream, tn TypeName, branches []string, v any, depth int) error {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return &EncodeError{Message: fmt.Sprintf(`expected ["type", value] pair for variant %q, got: %v`, tn, v)}
	}
	branchName, ok := pair[0].(string)
	if !ok {
		return &EncodeError{Message: fmt.Sprintf("variant %q discriminant must be a string, got: %v", tn, pair[0])}
	}
	for i, branch := range branches {
		if branch == branchName {
			types.WriteVarUint32(bs, uint32(i))
			return a.encode(bs, TypeName(branch), pair[1], depth+1)
		}
	}
	return &EncodeError{Message: fmt.Sprintf("variant %q has no alternative of type %q", tn, branchName)}
}

func (a *ABI) encodeStruct(bs *bytestream.ByteStream, spec *structSpec, v any, depth int) error {
	obj, ok := v.(jsonval.Object)
	if !ok {
		return &EncodeError{Message: fmt.Sprintf("expected object for struct %q, got: %v", spec.name, v)}
	}

	sawAbsentExtension := false
	for _, field := range spec.fields {
		ft := TypeName(field.Type)
		value, present := obj.Get(field.Name)

		if ft.HasBinExtension() {
			if !present {
				sawAbsentExtension = true
				continue
			}
			// presence of trailing extension fields is monotone
			if sawAbsentExtension {
				return &EncodeError{
					Message: fmt.Sprintf("field %q of struct %q is present but an earlier binary extension field is absent", field.Name, spec.name),
				}
			}
			if err := a.encode(bs, ft.RemoveBinExtension(), value, depth+1); err != nil {
				return err
			}
			continue
		}

		if !present {
			return &EncodeError{Message: fmt.Sprintf("missing field %q in struct %q", field.Name, spec.name)}
		}
		if value == nil && !a.resolveAlias(ft).IsOptional() {
			return &EncodeError{Message: fmt.Sprintf("field %q of struct %q is not optional but has a null value", field.Name, spec.name)}
		}
		if err := a.encode(bs, ft, value, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
//     Decoder
// -----------------------------------------------------------------------------

// DecodeVariant decodes one value of the named type from the stream and
// returns its canonical JSON form. Bytes remaining after the decode are
// not an error; callers that require full consumption check Leftover.
func (a *ABI) DecodeVariant(bs *bytestream.ByteStream, typename string) (any, error) {
	return a.decode(bs, TypeName(typename), 0)
}

func (a *ABI) decode(bs *bytestream.ByteStream, tn TypeName, depth int) (any, error) {
	if depth > maxRecursionDepth {
		return nil, &DecodeError{Message: fmt.Sprintf("recursion depth limit %d exceeded while decoding %q", maxRecursionDepth, tn)}
	}

	tn = a.resolveAlias(tn.RemoveBinExtension())

	switch {
	case tn.IsOptional():
		flag, err := bs.ReadByte()
		if err != nil {
			return nil, &DecodeError{Message: fmt.Sprintf("cannot read optional flag for %q", tn), Err: err}
		}
		switch flag {
		case 0:
			return nil, nil
		case 1:
			return a.decode(bs, tn.FundamentalType(), depth+1)
		default:
			return nil, &DecodeError{Message: fmt.Sprintf("invalid optional flag byte %d for %q", flag, tn)}
		}

	case tn.IsArray():
		n, err := types.ReadVarUint32(bs)
		if err != nil {
			return nil, &DecodeError{Message: fmt.Sprintf("cannot read array length for %q", tn), Err: err}
		}
		return a.decodeElements(bs, tn.FundamentalType(), int(n), depth)

	case tn.IsSizedArray():
		n, err := sizedArrayLen(tn)
		if err != nil {
			return nil, err
		}
		return a.decodeElements(bs, tn.FundamentalType(), n, depth)
	}

	if branches, ok := a.variants[string(tn)]; ok {
		tag, err := types.ReadVarUint32(bs)
		if err != nil {
			return nil, &DecodeError{Message: fmt.Sprintf("cannot read discriminant for variant %q", tn), Err: err}
		}
		if int(tag) >= len(branches) {
			return nil, &DecodeError{
				Message: fmt.Sprintf("variant %q has %d alternatives but decoded discriminant is %d", tn, len(branches), tag),
			}
		}
		branch := branches[tag]
		value, err := a.decode(bs, TypeName(branch), depth+1)
		if err != nil {
			return nil, err
		}
		return []any{branch, value}, nil
	}

	if spec, ok := a.structs[string(tn)]; ok {
		obj := jsonval.Object{}
		for _, field := range spec.fields {
			ft := TypeName(field.Type)
			if ft.HasBinExtension() && len(bs.Leftover()) == 0 {
				break
			}
			value, err := a.decode(bs, ft, depth+1)
			if err != nil {
				return nil, err
			}
			obj = append(obj, jsonval.Member{Key: field.Name, Value: value})
		}
		return obj, nil
	}

	if t, ok := types.TypeByName(string(tn)); ok {
		value, err := types.Unpack(t, bs)
		if err != nil {
			return nil, &DecodeError{Message: fmt.Sprintf("cannot decode value of type %q", tn), Err: err}
		}
		return value.Variant(), nil
	}
	return nil, &DecodeError{Message: fmt.Sprintf("unknown type: %q", tn)}
}

// decodeElements reads n consecutive elements. The element count comes
// from untrusted input, so the result buffer grows as elements actually
// arrive instead of being pre-sized.
func (a *ABI) decodeElements(bs *bytestream.ByteStream, inner TypeName, n int, depth int) ([]any, error) {
	arr := []any{}
	for i := 0; i < n; i++ {
		elem, err := a.decode(bs, inner, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, elem)
	}
	return arr, nil
}
