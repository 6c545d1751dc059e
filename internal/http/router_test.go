package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/extractor"
	apphttp "github.com/MrJamesThe3rd/pennywise/internal/http"
	analyticshttp "github.com/MrJamesThe3rd/pennywise/internal/http/analytics"
	exporthttp "github.com/MrJamesThe3rd/pennywise/internal/http/export"
	"github.com/MrJamesThe3rd/pennywise/internal/http/importfile"
	transactionhttp "github.com/MrJamesThe3rd/pennywise/internal/http/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/settings"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type server struct {
	handler  http.Handler
	repo     *transaction.MockRepository
	settings *settings.MockStore
}

func newServer(t *testing.T) *server {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := transaction.NewMockRepository(ctrl)
	store := settings.NewMockStore(ctrl)

	txSvc := transaction.NewService(repo, 2)
	analyticsSvc := analytics.NewService(txSvc, store)

	handler := apphttp.New(
		[]string{"*"},
		transactionhttp.NewHandler(txSvc, extractor.New()),
		importfile.NewHandler(importer.NewService(), txSvc, 1<<20),
		exporthttp.NewHandler(export.NewService(txSvc)),
		analyticshttp.NewHandler(analyticsSvc, txSvc),
	)

	return &server{handler: handler, repo: repo, settings: store}
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	return rr
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

type txBody struct {
	ID       uuid.UUID   `json:"id"`
	Title    string      `json:"title"`
	Amount   json.Number `json:"amount"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

func assign(_ context.Context, tx *transaction.Transaction) error {
	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()

	return nil
}

func stored(title, amount string, typ transaction.Type, category string, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:       uuid.New(),
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Category: category,
		Date:     transaction.DateOf(date),
	}
}

func TestTransactions_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		expectRepo bool
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "SignedAmountStoredAsMagnitude",
			body:       `{"text":"Groceries","amount":-45.5,"type":"expense","category":"Food","date":"2025-11-05"}`,
			expectRepo: true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "MissingText",
			body:       `{"amount":10,"type":"expense"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "UnknownType",
			body:       `{"text":"Gift","amount":10,"type":"transfer"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadDate",
			body:       `{"text":"Gift","amount":10,"type":"income","date":"05/11/2025"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedBody",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t)

			if tt.expectRepo {
				srv.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, "45.5", tx.Amount.String())
						assert.Equal(t, "-45.5", tx.SignedAmount().String())

						return assign(ctx, tx)
					})
			}

			rr := srv.do(jsonRequest(http.MethodPost, "/api/v1/transactions", tt.body))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantStatus != http.StatusCreated {
				return
			}

			var got txBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, "Groceries", got.Title)
			assert.Equal(t, json.Number("45.50"), got.Amount)
			assert.Equal(t, "2025-11-05", got.Date)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestTransactions_Create_RequiresJSON(t *testing.T) {
	srv := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader("text=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := srv.do(req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestTransactions_List(t *testing.T) {
	srv := newServer(t)

	date := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	srv.repo.EXPECT().ListTransactions(gomock.Any()).Return([]*transaction.Transaction{
		stored("Swiggy", "249", transaction.TypeExpense, "Food", date),
		stored("Salary", "50000", transaction.TypeIncome, "Salary", date),
		stored("Uber", "120", transaction.TypeExpense, "Transport", date.AddDate(0, 0, 1)),
		stored("Rent", "15000", transaction.TypeExpense, "Bills", date.AddDate(0, 0, -3)),
	}, nil)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/transactions?type=expense&sort=amount&order=desc&start_date=2025-11-04", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got []txBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Swiggy", got[0].Title)
	assert.Equal(t, "Uber", got[1].Title)
}

func TestTransactions_List_BadSort(t *testing.T) {
	srv := newServer(t)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/transactions?sort=colour", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTransactions_Categories(t *testing.T) {
	srv := newServer(t)

	date := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	srv.repo.EXPECT().ListTransactions(gomock.Any()).Return([]*transaction.Transaction{
		stored("Swiggy", "249", transaction.TypeExpense, "Food", date),
		stored("Zomato", "300", transaction.TypeExpense, "Food", date),
		stored("Uber", "120", transaction.TypeExpense, "Transport", date),
	}, nil)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []string{"Food", "Transport"}, got)
}

func TestTransactions_GetAndDelete(t *testing.T) {
	srv := newServer(t)

	id := uuid.New()
	missing := uuid.New()

	srv.repo.EXPECT().GetTransaction(gomock.Any(), missing).Return(nil, transaction.ErrNotFound)
	srv.repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)
	srv.repo.EXPECT().DeleteTransaction(gomock.Any(), missing).Return(transaction.ErrNotFound)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+id.String(), nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTransactions_Parse(t *testing.T) {
	const message = `{"text":"You paid ₹249 to Swiggy UPI Ref 4431 using UPI"}`

	t.Run("PreviewOnly", func(t *testing.T) {
		srv := newServer(t)

		rr := srv.do(jsonRequest(http.MethodPost, "/api/v1/transactions/parse", message))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var got txBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Swiggy", got.Title)
		assert.Equal(t, json.Number("249.00"), got.Amount)
		assert.Equal(t, "expense", got.Type)
		assert.Equal(t, "Food", got.Category)
	})

	t.Run("Save", func(t *testing.T) {
		srv := newServer(t)
		srv.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(assign)

		rr := srv.do(jsonRequest(http.MethodPost, "/api/v1/transactions/parse?save=true", message))
		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("Unparsable", func(t *testing.T) {
		srv := newServer(t)

		rr := srv.do(jsonRequest(http.MethodPost, "/api/v1/transactions/parse", `{"text":"hello there"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestImport(t *testing.T) {
	srv := newServer(t)

	srv.repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, tx *transaction.Transaction) error {
			if tx.Title == "Rent" {
				return assert.AnError
			}

			return assign(ctx, tx)
		}).
		Times(2)

	csv := "Date,Title,Category,Type,Amount\n" +
		"2025-11-05,Swiggy,Food,expense,249\n" +
		"2025-11-01,Rent,Bills,expense,15000\n" +
		"2025-11-02,Broken,Bills,expense,abc\n"

	rr := srv.do(multipartUpload(t, "history.CSV", csv))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var got struct {
		Format   string `json:"format"`
		Total    int    `json:"total"`
		Accepted int    `json:"accepted"`
		Skipped  int    `json:"skipped"`
		Created  int    `json:"created"`
		Failed   []struct {
			Index int    `json:"index"`
			Title string `json:"title"`
		} `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "csv", got.Format)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Accepted)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, 1, got.Created)
	require.Len(t, got.Failed, 1)
	assert.Equal(t, "Rent", got.Failed[0].Title)
}

func TestImport_UnsupportedExtension(t *testing.T) {
	srv := newServer(t)

	rr := srv.do(multipartUpload(t, "history.xlsx", "whatever"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestImport_MalformedJSON(t *testing.T) {
	srv := newServer(t)

	rr := srv.do(multipartUpload(t, "history.json", `{"title": `))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestExport(t *testing.T) {
	srv := newServer(t)

	date := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	srv.repo.EXPECT().ListTransactions(gomock.Any()).Return([]*transaction.Transaction{
		stored("Swiggy", "249", transaction.TypeExpense, "Food", date),
		stored("Salary", "50000", transaction.TypeIncome, "Salary", date),
	}, nil)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/export?format=json&type=income", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="finance_report.json"`, rr.Header().Get("Content-Disposition"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Salary", got[0]["Title"])
}

func TestExport_UnknownFormat(t *testing.T) {
	srv := newServer(t)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalytics_Dashboard(t *testing.T) {
	srv := newServer(t)

	today := time.Now()
	srv.repo.EXPECT().ListTransactions(gomock.Any()).Return([]*transaction.Transaction{
		stored("Salary", "1000", transaction.TypeIncome, "Salary", today),
		stored("Swiggy", "150", transaction.TypeExpense, "Food", today),
		stored("Uber", "100", transaction.TypeExpense, "Transport", today),
	}, nil)
	srv.settings.EXPECT().Load().Return(settings.Settings{BudgetLimit: decimal.NewFromInt(1000)}, nil)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboard", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got struct {
		Period        string      `json:"period"`
		Balance       json.Number `json:"balance"`
		TopCategories []struct {
			Category string `json:"category"`
		} `json:"top_categories"`
		Budget struct {
			PercentageUsed json.Number `json:"percentage_used"`
			Remaining      json.Number `json:"remaining"`
		} `json:"budget"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "this_month", got.Period)
	assert.Equal(t, json.Number("750.00"), got.Balance)
	require.Len(t, got.TopCategories, 2)
	assert.Equal(t, "Food", got.TopCategories[0].Category)
	assert.Equal(t, json.Number("25.0"), got.Budget.PercentageUsed)
	assert.Equal(t, json.Number("750.00"), got.Budget.Remaining)
}

func TestAnalytics_Dashboard_UnknownPeriod(t *testing.T) {
	srv := newServer(t)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboard?period=decade", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalytics_SetBudget(t *testing.T) {
	t.Run("Saved", func(t *testing.T) {
		srv := newServer(t)
		srv.settings.EXPECT().Load().Return(settings.Settings{BudgetLimit: decimal.NewFromInt(20000)}, nil)
		srv.settings.EXPECT().
			Save(gomock.Any()).
			DoAndReturn(func(s settings.Settings) error {
				assert.Equal(t, "5000", s.BudgetLimit.String())
				return nil
			})

		rr := srv.do(jsonRequest(http.MethodPut, "/api/v1/analytics/budget", `{"limit": 5000}`))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Negative", func(t *testing.T) {
		srv := newServer(t)

		rr := srv.do(jsonRequest(http.MethodPut, "/api/v1/analytics/budget", `{"limit": -1}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAnalytics_Rollover_NothingPending(t *testing.T) {
	srv := newServer(t)

	srv.repo.EXPECT().ListTransactions(gomock.Any()).Return(nil, nil).Times(2)
	srv.settings.EXPECT().Load().Return(settings.Settings{}, nil).Times(2)

	rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/rollover", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"pending":false}`, rr.Body.String())

	rr = srv.do(httptest.NewRequest(http.MethodPost, "/api/v1/analytics/rollover/accept", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAnalytics_Goal(t *testing.T) {
	type testCase struct {
		name       string
		target     string
		history    []*transaction.Transaction
		wantStatus int
		wantMonths int
	}

	tests := []testCase{
		{
			name:   "Projected",
			target: "1000",
			history: []*transaction.Transaction{
				stored("Salary", "800", transaction.TypeIncome, "Salary", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
				stored("Rent", "500", transaction.TypeExpense, "Bills", time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)),
			},
			wantStatus: http.StatusOK,
			wantMonths: 4,
		},
		{
			name:       "NoHistory",
			target:     "1000",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "OutOfReach",
			target: "9300000000000000000",
			history: []*transaction.Transaction{
				stored("Tip", "1", transaction.TypeIncome, "Gifts", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "ZeroTarget",
			target:     "0",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NotANumber",
			target:     "lots",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t)
			srv.repo.EXPECT().ListTransactions(gomock.Any()).Return(tt.history, nil).AnyTimes()

			rr := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/goal?target="+tt.target, nil))
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantStatus != http.StatusOK {
				return
			}

			var got struct {
				MonthsNeeded int `json:"months_needed"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, tt.wantMonths, got.MonthsNeeded)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := srv.do(req)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
