package directus

import "encoding/json"

// Filter -- предикат запроса в нотации хранилища: равенство по полю и
// логические связки _and/_or.
type Filter struct {
	node map[string]interface{}
}

func Eq(field string, value interface{}) *Filter {
	return &Filter{node: map[string]interface{}{
		field: map[string]interface{}{"_eq": value},
	}}
}

func And(filters ...*Filter) *Filter {
	return combine("_and", filters)
}

func Or(filters ...*Filter) *Filter {
	return combine("_or", filters)
}

func combine(op string, filters []*Filter) *Filter {
	nodes := make([]interface{}, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			continue
		}
		nodes = append(nodes, f.node)
	}
	return &Filter{node: map[string]interface{}{op: nodes}}
}

func (f *Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.node)
}
