package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// defaultPageCap повторяет страничный потолок сервера: запрос без limit
// получает не больше 100 записей, limit=-1 снимает ограничение.
const defaultPageCap = 100

// storeStub -- хранилище контента в памяти за httptest: ровно та часть
// коллекционного API, которой пользуется импортёр.
type storeStub struct {
	mu          sync.Mutex
	collections map[string][]map[string]interface{}
	nextID      int
	// statusLog собирает значения import_status в порядке записи
	statusLog []string
	// failCreate коллекции, POST в которые отвечает 500
	failCreate map[string]bool
}

func newStoreStub() *storeStub {
	return &storeStub{
		collections: make(map[string][]map[string]interface{}),
		failCreate:  make(map[string]bool),
	}
}

func (s *storeStub) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(s.handle))
}

func (s *storeStub) add(collection string, item map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], item)
}

func (s *storeStub) items(collection string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.collections[collection]...)
}

func (s *storeStub) statuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statusLog...)
}

func (s *storeStub) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, id := parsePath(r.URL.Path)
	if collection == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleRead(w, r, collection)
	case http.MethodPost:
		if s.failCreate[collection] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var item map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, ok := item["id"]; !ok {
			s.nextID++
			item["id"] = fmt.Sprintf("gen-%d", s.nextID)
		}
		s.collections[collection] = append(s.collections[collection], item)
		writeData(w, item)
	case http.MethodPatch:
		var patch map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, item := range s.collections[collection] {
			if fmt.Sprintf("%v", item["id"]) == id {
				for k, v := range patch {
					if v == nil {
						continue
					}
					item[k] = v
				}
				if collection == "stores" {
					if status, ok := patch["import_status"].(string); ok {
						s.statusLog = append(s.statusLog, status)
					}
				}
				writeData(w, item)
				return
			}
		}
		http.Error(w, "item not found", http.StatusNotFound)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *storeStub) handleRead(w http.ResponseWriter, r *http.Request, collection string) {
	query := r.URL.Query()

	var filter map[string]interface{}
	if raw := query.Get("filter"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var matched []map[string]interface{}
	for _, item := range s.collections[collection] {
		if filter == nil || matches(filter, item) {
			matched = append(matched, item)
		}
	}

	if query.Get("aggregate[count]") != "" {
		writeData(w, []map[string]interface{}{{"count": len(matched)}})
		return
	}

	limit := defaultPageCap
	if rawLimit := query.Get("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	if matched == nil {
		matched = []map[string]interface{}{}
	}
	writeData(w, matched)
}

func matches(filter map[string]interface{}, item map[string]interface{}) bool {
	for key, value := range filter {
		switch key {
		case "_and":
			for _, sub := range value.([]interface{}) {
				if !matches(sub.(map[string]interface{}), item) {
					return false
				}
			}
		case "_or":
			anyMatched := false
			for _, sub := range value.([]interface{}) {
				if matches(sub.(map[string]interface{}), item) {
					anyMatched = true
					break
				}
			}
			if !anyMatched {
				return false
			}
		default:
			cond, ok := value.(map[string]interface{})
			if !ok {
				return false
			}
			want, hasEq := cond["_eq"]
			if !hasEq {
				return false
			}
			if fmt.Sprintf("%v", item[key]) != fmt.Sprintf("%v", want) {
				return false
			}
		}
	}
	return true
}

func parsePath(path string) (collection, id string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) >= 1 && parts[0] == "users":
		collection = "directus_users"
		if len(parts) > 1 {
			id = parts[1]
		}
	case len(parts) >= 2 && parts[0] == "items":
		collection = parts[1]
		if len(parts) > 2 {
			id = parts[2]
		}
	}
	return collection, id
}

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}
