package booter

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Definition is a parsed module block.
//
//	module "farmsquare/tracker" {
//	    priority = 10
//	    disabled = false
//	    config {
//	        QueueSize = 64
//	    }
//	    inject "farmsquare/render" "Presenter" {}
//	}
type Definition struct {
	Id       string
	Name     string
	Priority int
	Disabled bool
	Config   cty.Value
	Injects  []InjectionDef
}

// InjectionDef sets the module into Target's FieldName,
// FieldName may also be a setter method.
type InjectionDef struct {
	Target    string
	FieldName string
}

func LoadDefinitionFiles(files []string, evalCtx *hcl.EvalContext) ([]*Definition, error) {
	body, err := LoadFile(files...)
	if err != nil {
		return nil, err
	}
	return ParseDefinitions(body, evalCtx)
}

func LoadDefinitions(content []byte, evalCtx *hcl.EvalContext) ([]*Definition, error) {
	body, err := Load(content)
	if err != nil {
		return nil, err
	}
	return ParseDefinitions(body, evalCtx)
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module", LabelNames: []string{"id"}},
		{Type: "define", LabelNames: []string{"id"}},
	},
}

var moduleSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "priority", Required: false},
		{Name: "disabled", Required: false},
		{Name: "name", Required: false},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "config", LabelNames: []string{}},
		{Type: "inject", LabelNames: []string{"target", "field"}},
	},
}

// ParseDefinitions evaluates the define blocks into variables named
// <define id>_<attribute> and returns the module definitions sorted by priority.
func ParseDefinitions(body hcl.Body, evalCtx *hcl.EvalContext) ([]*Definition, error) {
	if evalCtx == nil {
		evalCtx = &hcl.EvalContext{}
	}
	if evalCtx.Functions == nil {
		evalCtx.Functions = make(map[string]function.Function)
		for k, v := range DefaultFunctions {
			evalCtx.Functions[k] = v
		}
	}
	if evalCtx.Variables == nil {
		evalCtx.Variables = make(map[string]cty.Value)
	}

	content, diag := body.Content(fileSchema)
	if diag.HasErrors() {
		return nil, errors.New(diag.Error())
	}

	modules := make([]*hcl.Block, 0)
	for _, block := range content.Blocks {
		switch block.Type {
		case "define":
			attrs, diag := block.Body.JustAttributes()
			if diag.HasErrors() {
				return nil, errors.New(diag.Error())
			}
			for _, attr := range attrs {
				value, diag := attr.Expr.Value(evalCtx)
				if diag.HasErrors() {
					return nil, errors.New(diag.Error())
				}
				evalCtx.Variables[fmt.Sprintf("%s_%s", block.Labels[0], attr.Name)] = value
			}
		case "module":
			modules = append(modules, block)
		}
	}

	priorityBase := 1000
	result := make([]*Definition, 0, len(modules))
	for i, m := range modules {
		def, err := parseModule(m, evalCtx, priorityBase+i, i)
		if err != nil {
			return nil, err
		}
		result = append(result, def)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result, nil
}

func parseModule(m *hcl.Block, evalCtx *hcl.EvalContext, priority int, seq int) (*Definition, error) {
	moduleId := m.Labels[0]
	def := &Definition{
		Id:       moduleId,
		Name:     fmt.Sprintf("$mod_%d", seq+1),
		Priority: priority,
		Config:   cty.NilVal,
	}
	if offset := strings.LastIndex(moduleId, "/"); offset > 0 && offset < len(moduleId)-1 {
		def.Name = fmt.Sprintf("%s%02d", moduleId[offset+1:], seq)
	}

	content, diag := m.Body.Content(moduleSchema)
	if diag.HasErrors() {
		return nil, errors.New(diag.Error())
	}
	for _, attr := range content.Attributes {
		value, diag := attr.Expr.Value(evalCtx)
		if diag.HasErrors() {
			return nil, errors.New(diag.Error())
		}
		switch attr.Name {
		case "priority":
			def.Priority = PriorityFromCty(value)
		case "disabled":
			v, err := BoolFromCty(value)
			if err != nil {
				return nil, fmt.Errorf("module %s disabled, %w", moduleId, err)
			}
			def.Disabled = v
		case "name":
			def.Name = StringFromCty(value)
		}
	}
	for _, c := range content.Blocks {
		switch c.Type {
		case "config":
			body, ok := c.Body.(*hclsyntax.Body)
			if !ok {
				return nil, fmt.Errorf("module %s config is not a native hcl body", moduleId)
			}
			obj, err := ObjectValFromBody(body, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("module %s config, %w", moduleId, err)
			}
			def.Config = obj
		case "inject":
			target, fieldName := c.Labels[0], c.Labels[1]
			if target == "" {
				return nil, fmt.Errorf("module %s inject target not defined", moduleId)
			}
			if fieldName == "" {
				return nil, fmt.Errorf("module %s inject %s requires target field", moduleId, target)
			}
			def.Injects = append(def.Injects, InjectionDef{Target: target, FieldName: fieldName})
		}
	}
	return def, nil
}

func LoadFile(files ...string) (hcl.Body, error) {
	hclFiles := make([]*hcl.File, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		hclFile, hclDiag := hclsyntax.ParseConfig(content, file, hcl.Pos{Line: 1, Column: 1})
		if hclDiag.HasErrors() {
			return nil, errors.New(hclDiag.Error())
		}
		hclFiles = append(hclFiles, hclFile)
	}
	return hcl.MergeFiles(hclFiles), nil
}

func Load(content []byte) (hcl.Body, error) {
	hclFile, hclDiag := hclsyntax.ParseConfig(content, "nofile.hcl", hcl.Pos{Line: 1, Column: 1})
	if hclDiag.HasErrors() {
		return nil, errors.New(hclDiag.Error())
	}
	return hclFile.Body, nil
}

// ObjectValFromBody evaluates attributes and nested blocks into an object value,
// a nested block becomes an attribute named after its type.
func ObjectValFromBody(body *hclsyntax.Body, evalCtx *hcl.EvalContext) (cty.Value, error) {
	rt := make(map[string]cty.Value)
	for _, attr := range body.Attributes {
		value, diag := attr.Expr.Value(evalCtx)
		if diag.HasErrors() {
			return cty.NilVal, errors.New(diag.Error())
		}
		rt[attr.Name] = value
	}
	for _, block := range body.Blocks {
		bval, err := ObjectValFromBody(block.Body, evalCtx)
		if err != nil {
			return cty.NilVal, err
		}
		rt[block.Type] = bval
	}
	return cty.ObjectVal(rt), nil
}

// EvalObject assigns the object value to the struct pointed by obj,
// attribute names are matched to exported field names.
func EvalObject(objName string, obj any, value cty.Value) error {
	return EvalReflectValue(objName, reflect.ValueOf(obj), value)
}

var durationType = reflect.TypeOf(time.Duration(0))

func EvalReflectValue(refName string, ref reflect.Value, value cty.Value) error {
	if ref.Kind() == reflect.Pointer {
		if ref.IsNil() {
			ref.Set(reflect.New(ref.Type().Elem()))
		}
		ref = ref.Elem()
	}
	if value.IsNull() {
		return nil
	}
	switch ref.Kind() {
	case reflect.Struct:
		if !value.Type().IsObjectType() && !value.Type().IsMapType() {
			return fmt.Errorf("%s should be object as %s", refName, ref.Type().Name())
		}
		for k, v := range value.AsValueMap() {
			field := ref.FieldByName(k)
			if !field.IsValid() || !field.CanSet() {
				return fmt.Errorf("%s field not found in %s", k, refName)
			}
			if err := EvalReflectValue(refName+"."+k, field, v); err != nil {
				return err
			}
		}
	case reflect.String:
		if value.Type() != cty.String {
			return fmt.Errorf("%s should be string", refName)
		}
		ref.SetString(value.AsString())
	case reflect.Bool:
		v, err := BoolFromCty(value)
		if err != nil {
			return fmt.Errorf("%s should be bool, %w", refName, err)
		}
		ref.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var v int64
		var err error
		if ref.Type() == durationType {
			var d time.Duration
			d, err = DurationFromCty(value)
			v = int64(d)
		} else {
			v, err = Int64FromCty(value)
		}
		if err != nil {
			return fmt.Errorf("%s should be int, %w", refName, err)
		}
		ref.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := Int64FromCty(value)
		if err != nil || v < 0 {
			return fmt.Errorf("%s should be uint", refName)
		}
		ref.SetUint(uint64(v))
	case reflect.Float32, reflect.Float64:
		v, err := Float64FromCty(value)
		if err != nil {
			return fmt.Errorf("%s should be float, %w", refName, err)
		}
		ref.SetFloat(v)
	case reflect.Slice:
		if !value.Type().IsTupleType() && !value.Type().IsListType() {
			return fmt.Errorf("%s should be list", refName)
		}
		vs := value.AsValueSlice()
		slice := reflect.MakeSlice(ref.Type(), len(vs), len(vs))
		for i, elm := range vs {
			if err := EvalReflectValue(fmt.Sprintf("%s[%d]", refName, i), slice.Index(i), elm); err != nil {
				return err
			}
		}
		ref.Set(slice)
	case reflect.Map:
		if ref.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%s unsupported map key type: %v", refName, ref.Type().Key())
		}
		maps := reflect.MakeMap(ref.Type())
		for k, v := range value.AsValueMap() {
			val := reflect.New(ref.Type().Elem()).Elem()
			if err := EvalReflectValue(fmt.Sprintf("%s[%q]", refName, k), val, v); err != nil {
				return err
			}
			maps.SetMapIndex(reflect.ValueOf(k), val)
		}
		ref.Set(maps)
	default:
		return fmt.Errorf("unsupported reflection %s type: %s", refName, ref.Kind())
	}
	return nil
}
