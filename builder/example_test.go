package builder_test

import (
	"fmt"
	"log"
	"net/http"

	"github.com/erraggy/oascompose/builder"
	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/nesting"
)

// User is a user account.
type User struct {
	ID   int64  `json:"id" oas:"description=Unique user identifier"`
	Name string `json:"name" oas:"minLength=1"`
}

// Page is one page of results.
type Page[T any] struct {
	Items []T  `json:"items"`
	More  bool `json:"more"`
}

// Example demonstrates declaring a fragment in code.
func Example() {
	b := builder.New(document.Info{Title: "Users", Version: "1.0.0"})
	b.AddOperation(document.MethodGet, "/users",
		builder.WithOperationID("listUsers"),
		builder.WithResponse(http.StatusOK, Page[User]{}),
	)

	doc, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(doc.Operations.Paths(document.OrderInsertion))
	fmt.Println(doc.Schemas.Names(document.OrderInsertion))
	// Output:
	// [/users]
	// [User Page_User]
}

// Example_nested demonstrates mounting a fragment under a prefix.
func Example_nested() {
	b := builder.New(document.Info{Title: "Users", Version: "1.0.0"})
	b.AddOperation(document.MethodGet, "/{id}",
		builder.WithPathParam("id", int64(0)),
		builder.WithResponse(http.StatusOK, User{}),
	)
	users, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	result, err := nesting.Nest(nil, nesting.Mount{Prefix: "/api/users", Document: users, Tags: []string{"users"}})
	if err != nil {
		log.Fatal(err)
	}
	op, _ := result.Document.Operations.Get("/api/users/{id}", document.MethodGet)
	fmt.Println(op.Path, op.Tags)
	// Output:
	// /api/users/{id} [users]
}
