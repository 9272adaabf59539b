// Package docs registers the OpenAPI document with swag so the Swagger UI can
// serve it from /swagger/doc.json.
package docs

import (
	"sync"

	"comanda/internal/adapters/in/http/servers"

	"github.com/swaggo/swag"
)

type document struct {
	once sync.Once
	json string
}

// ReadDoc renders the embedded document as JSON the first time it is asked for.
func (d *document) ReadDoc() string {
	d.once.Do(func() {
		d.json = "{}"

		swagger, err := servers.LoadDocument()
		if err != nil {
			return
		}
		data, err := swagger.MarshalJSON()
		if err != nil {
			return
		}
		d.json = string(data)
	})
	return d.json
}

func init() {
	swag.Register(swag.Name, &document{})
}
