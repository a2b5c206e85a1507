package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/linesmerrill/civicdesk/models"
)

// Document is an optional attachment sent with a user form
type Document struct {
	Name string
	Body io.Reader
}

// ListUsers returns every user (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.doJSON(ctx, "list users", http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

// GetUser fetches a user by id
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, "get user", http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser registers a user with an optional document attachment
func (c *Client) CreateUser(ctx context.Context, form models.UserForm, doc *Document) (*models.User, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(form.Email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "required"}
	}
	if form.Password == "" {
		return nil, &ValidationError{Field: "password", Reason: "required"}
	}
	return c.sendUserForm(ctx, "create user", http.MethodPost, "/users", form, doc)
}

// UpdateUser replaces a user's details, and the document if one is given
func (c *Client) UpdateUser(ctx context.Context, id string, form models.UserForm, doc *Document) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Reason: "required"}
	}
	return c.sendUserForm(ctx, "update user", http.MethodPut, "/users/"+url.PathEscape(id), form, doc)
}

// DeleteUser removes a user
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return c.doJSON(ctx, "delete user", http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) sendUserForm(ctx context.Context, op, method, path string, form models.UserForm, doc *Document) (*models.User, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ k, v string }{
		{"name", form.Name},
		{"email", form.Email},
		{"password", form.Password},
		{"role", form.Role},
		{"phone", form.Phone},
		{"address", form.Address},
	}
	for _, f := range fields {
		if f.v == "" {
			continue
		}
		if err := mw.WriteField(f.k, f.v); err != nil {
			return nil, &RequestError{Op: op, Err: err}
		}
	}
	if doc != nil && doc.Body != nil {
		part, err := mw.CreateFormFile("document", doc.Name)
		if err != nil {
			return nil, &RequestError{Op: op, Err: err}
		}
		if _, err := io.Copy(part, doc.Body); err != nil {
			return nil, &RequestError{Op: op, Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out models.User
	if err := c.send(req, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
