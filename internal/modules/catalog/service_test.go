package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr bool
	}{
		{name: "defaultMenu", entries: DefaultEntries},
		{name: "empty", entries: nil},
		{
			name: "duplicateID",
			entries: []Entry{
				{ID: "a", Name: "A", UnitPrice: 1, Category: CategoryFood},
				{ID: "a", Name: "B", UnitPrice: 2, Category: CategoryDrink},
			},
			wantErr: true,
		},
		{
			name:    "missingID",
			entries: []Entry{{Name: "A", UnitPrice: 1}},
			wantErr: true,
		},
		{
			name:    "negativePrice",
			entries: []Entry{{ID: "a", Name: "A", UnitPrice: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestServiceGet(t *testing.T) {
	svc := MustDefault()

	e, err := svc.Get("makanan-2")
	require.NoError(t, err)
	assert.Equal(t, "Gado Gado", e.Name)
	assert.Equal(t, int64(25000), e.UnitPrice)
	assert.Equal(t, CategoryFood, e.Category)

	_, err = svc.Get("makanan-99")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestServiceList(t *testing.T) {
	svc := MustDefault()

	assert.Len(t, svc.List(""), 12)

	drinks := svc.List(CategoryDrink)
	assert.Len(t, drinks, 7)
	assert.Equal(t, "Es Campur", drinks[0].Name)
	for _, d := range drinks {
		assert.Equal(t, CategoryDrink, d.Category)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "food", want: CategoryFood},
		{in: "Makanan", want: CategoryFood},
		{in: " drink ", want: CategoryDrink},
		{in: "minuman", want: CategoryDrink},
		{in: "dessert", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandlerListEntries(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(MustDefault()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu?category=minuman", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 7)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu?category=snack", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
