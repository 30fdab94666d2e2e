package algorithms

import (
	"fmt"
	"sort"
	"sync"

	"github.com/intellai/intell-client-go/client"
)

// ParamKind 参数取值类别。
type ParamKind string

const (
	KindString ParamKind = "string"
	KindInt    ParamKind = "int"
	KindFloat  ParamKind = "float"
	KindBool   ParamKind = "bool"
	KindEnum   ParamKind = "enum"
)

// ParamSpec 单个算法参数的约束。
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
	Enum     []string // Kind==KindEnum 时的合法取值
}

// Spec 一个可选的可视化算法：向导据此构建建任务表单的 images 条目。
type Spec struct {
	Key           string
	Version       string
	Name          string
	Params        []ParamSpec
	OutputFormats []string
}

var (
	regMu sync.RWMutex
	specs = map[string]Spec{}
)

// Register 注册算法。
func Register(s Spec) { regMu.Lock(); defer regMu.Unlock(); specs[s.Key] = s }

// Get 按 key 获取算法。
func Get(key string) (Spec, bool) { regMu.RLock(); defer regMu.RUnlock(); s, ok := specs[key]; return s, ok }

// List 返回全部已注册算法（按 key 排序）。
func List() []Spec {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Validate 校验一组参数是否满足算法约束。
func (s Spec) Validate(params map[string]any) error {
	for _, p := range s.Params {
		v, present := params[p.Name]
		if !present {
			if p.Required {
				return fmt.Errorf("algorithm %s: missing required param %q", s.Key, p.Name)
			}
			continue
		}
		if err := checkKind(p, v); err != nil {
			return fmt.Errorf("algorithm %s: %w", s.Key, err)
		}
	}
	return nil
}

// ImageSpec 校验参数与输出格式后构建线上 images 条目。
func (s Spec) ImageSpec(params map[string]any, format string) (client.ImageSpec, error) {
	if err := s.Validate(params); err != nil {
		return client.ImageSpec{}, err
	}
	ok := false
	for _, f := range s.OutputFormats {
		if f == format {
			ok = true
			break
		}
	}
	if !ok {
		return client.ImageSpec{}, fmt.Errorf("algorithm %s: unsupported output format %q", s.Key, format)
	}
	return client.ImageSpec{
		AlgorithmKey:     s.Key,
		AlgorithmVersion: s.Version,
		Params:           params,
		OutputFormat:     format,
	}, nil
}

// checkKind 单参数类型/取值校验。JSON 解码会把数值统一为 float64，这里一并接受。
func checkKind(p ParamSpec, v any) error {
	switch p.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("param %q must be a string", p.Name)
		}
	case KindInt:
		switch n := v.(type) {
		case int:
		case int64:
		case float64:
			if n != float64(int64(n)) {
				return fmt.Errorf("param %q must be an integer", p.Name)
			}
		default:
			return fmt.Errorf("param %q must be an integer", p.Name)
		}
	case KindFloat:
		switch v.(type) {
		case float64, float32, int, int64:
		default:
			return fmt.Errorf("param %q must be a number", p.Name)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("param %q must be a bool", p.Name)
		}
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("param %q must be one of %v", p.Name, p.Enum)
		}
		for _, e := range p.Enum {
			if e == s {
				return nil
			}
		}
		return fmt.Errorf("param %q must be one of %v, got %q", p.Name, p.Enum, s)
	}
	return nil
}
