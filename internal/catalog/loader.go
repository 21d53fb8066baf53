package catalog

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/sentaku/assess-core/internal/util"
)

// loads the item catalog from a local file path or an http(s)
// url. accepts either a bare json array of items or an object
// wrapping them as {"items": [...]} - both shapes exist in the
// wild. an empty or unparseable catalog is a hard error, the
// service cannot run without one.
func Load(source string) ([]Item, error) {

	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		headers := map[string]string{"Accept": "application/json"}
		data, err = util.Fetch("GET", source, headers, nil)
		if err != nil {
			return nil, errors.Wrap(err, "cannot fetch catalog")
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, errors.Wrap(err, "cannot read catalog file")
		}
	}

	return Parse(data)
}

// parses catalog json, tolerating the array and wrapped-object
// shapes.
func Parse(data []byte) ([]Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("catalog is not valid json")
	}

	root := gjson.ParseBytes(data)
	list := root
	if !root.IsArray() {
		list = root.Get("items")
		if !list.IsArray() {
			return nil, errors.New("catalog json has no item array")
		}
	}

	var items []Item
	list.ForEach(func(_, v gjson.Result) bool {
		items = append(items, Item{
			Category:    v.Get("category").String(),
			Name:        v.Get("name").String(),
			Description: v.Get("description").String(),
		})
		return true
	})

	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	return items, nil
}
