package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/georgemunganga/kasir-backend/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	orders    []Order
	AppendErr error
}

func (f *fakeRecorder) Append(ctx context.Context, o Order) error {
	if f.AppendErr != nil {
		return f.AppendErr
	}
	f.orders = append(f.orders, o)
	return nil
}

func newTestService(rec *fakeRecorder) Service {
	return NewService(catalog.MustDefault(), rec, newTestBuilder())
}

func TestServiceAddLine(t *testing.T) {
	svc := newTestService(&fakeRecorder{})
	ctx := context.Background()

	cart, err := svc.AddLine(ctx, AddLineRequest{MenuEntryID: "makanan-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), cart.Total)

	_, err = svc.AddLine(ctx, AddLineRequest{MenuEntryID: "makanan-404"})
	assert.ErrorIs(t, err, catalog.ErrEntryNotFound)

	_, err = svc.AddLine(ctx, AddLineRequest{})
	assert.Error(t, err)
}

func TestServiceCheckout(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(rec)
	ctx := context.Background()

	_, err := svc.AddLine(ctx, AddLineRequest{MenuEntryID: "makanan-2"})
	require.NoError(t, err)
	name, notes := "Budi", "pedas"
	svc.UpdateDetails(ctx, UpdateDetailsRequest{CustomerName: &name, Notes: &notes})

	o, err := svc.Checkout(ctx, CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Budi", o.CustomerName)
	assert.Equal(t, "pedas", o.Notes)

	require.Len(t, rec.orders, 1)
	assert.Equal(t, o.ID, rec.orders[0].ID)

	cart := svc.Cart(ctx)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.CustomerName)
}

func TestServiceCheckoutEmpty(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(rec)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{CustomerName: "Budi"})
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, rec.orders)
}

func TestServiceCheckoutKeepsCartWhenPersistFails(t *testing.T) {
	rec := &fakeRecorder{AppendErr: errors.New("disk full")}
	svc := newTestService(rec)
	ctx := context.Background()

	_, err := svc.AddLine(ctx, AddLineRequest{MenuEntryID: "minuman-3"})
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, AddLineRequest{MenuEntryID: "minuman-3"})
	require.NoError(t, err)
	name := "Ana"
	svc.UpdateDetails(ctx, UpdateDetailsRequest{CustomerName: &name})

	_, err = svc.Checkout(ctx, CheckoutRequest{})
	require.Error(t, err)

	cart := svc.Cart(ctx)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "Ana", cart.CustomerName)
}

func TestHandlerCheckoutFlow(t *testing.T) {
	rec := &fakeRecorder{}
	router := chi.NewRouter()
	NewHandler(newTestService(rec)).RegisterRoutes(router)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
		return w
	}

	w := do(http.MethodPost, "/api/v1/cart/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(http.MethodPost, "/api/v1/cart/lines", AddLineRequest{MenuEntryID: "makanan-1"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(http.MethodPost, "/api/v1/cart/lines", AddLineRequest{MenuEntryID: "makanan-1"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(http.MethodPost, "/api/v1/cart/lines/makanan-1/decrement", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart Cart
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cart))
	assert.Equal(t, int64(30000), cart.Total)

	w = do(http.MethodPost, "/api/v1/cart/lines", AddLineRequest{MenuEntryID: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodPost, "/api/v1/cart/checkout", CheckoutRequest{CustomerName: "Sari"})
	require.Equal(t, http.StatusCreated, w.Code)

	var o Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&o))
	assert.Equal(t, "Sari", o.CustomerName)
	assert.Equal(t, int64(30000), o.TotalAmount)
	require.Len(t, rec.orders, 1)
}
