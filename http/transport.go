package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pnl "go-oiltrade-pnl"
	"go-oiltrade-pnl/engine"
	"go-oiltrade-pnl/exchange"
	"go-oiltrade-pnl/hubspot"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Engine   engine.Service
	Exchange exchange.Service
	Exporter hubspot.Exporter

	// SweepDeltas used when a sweep request supplies none
	SweepDeltas []pnl.Amount

	router http.ServeMux
}

func NewServer(e engine.Service, x exchange.Service, h hubspot.Exporter, deltas []pnl.Amount) *Server {
	server := &Server{
		Engine:      e,
		Exchange:    x,
		Exporter:    h,
		SweepDeltas: deltas,
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Handle("/api/calculate", s.calculate())
	s.router.Handle("/api/sweep", s.sweep())
	s.router.Handle("/api/convert", s.convert())
	s.router.Handle("/api/rates", s.rates())
	s.router.Handle("/api/export", s.export())
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// calculate produces the HTTP handler running one P&L calculation
func (s *Server) calculate() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		rw.Header().Set("Content-Type", "application/json")

		request, ok := decodeRequest(rw, r.Body)
		if !ok {
			return
		}

		snapshot, err := s.Exchange.Snapshot(r.Context())
		if err != nil {
			writeError(rw, http.StatusBadGateway, err)
			return
		}

		result, err := s.Engine.Calculate(r.Context(), request, snapshot)
		if err != nil {
			writeError(rw, errorStatus(err), err)
			return
		}

		encode(rw, result)
	}
}

// sweep produces the HTTP handler running a sensitivity sweep
func (s *Server) sweep() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		Request pnl.CalculationRequest `json:"request"`
		Deltas  []pnl.Amount           `json:"deltas"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Points []pnl.SweepPoint `json:"points"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		rw.Header().Set("Content-Type", "application/json")

		bytes, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(rw, http.StatusBadRequest, errors.New("invalid request"))
			return
		}
		var req request
		if err := json.Unmarshal(bytes, &req); err != nil {
			writeError(rw, http.StatusBadRequest, errors.New("invalid json"))
			return
		}
		deltas := req.Deltas
		if len(deltas) == 0 {
			deltas = s.SweepDeltas
		}

		snapshot, err := s.Exchange.Snapshot(r.Context())
		if err != nil {
			writeError(rw, http.StatusBadGateway, err)
			return
		}

		points, err := s.Engine.Sweep(r.Context(), req.Request, snapshot, deltas)
		if err != nil {
			writeError(rw, errorStatus(err), err)
			return
		}

		encode(rw, response{Points: points})
	}
}

// convert produces the HTTP handler for plain currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		FromCurrency pnl.Currency
		ToCurrency   pnl.Currency
		Amount       pnl.Amount
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Exchange pnl.Rate   `json:"exchange"`
		Amount   pnl.Amount `json:"amount"`
		Original pnl.Amount `json:"original"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		rw.Header().Set("Content-Type", "application/json")

		bytes, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(rw, http.StatusBadRequest, errors.New("invalid request"))
			return
		}
		var req request
		if err := json.Unmarshal(bytes, &req); err != nil {
			writeError(rw, http.StatusBadRequest, errors.New("invalid json"))
			return
		}

		result, err := s.Exchange.Convert(r.Context(), req.Amount, req.FromCurrency, req.ToCurrency)
		if err != nil {
			writeError(rw, errorStatus(err), err)
			return
		}

		encode(rw, response{
			Exchange: result.Rate,
			Amount:   result.Amount,
			Original: req.Amount,
		})
	}
}

// rates produces the HTTP handler exposing the current snapshot
func (s *Server) rates() http.HandlerFunc {

	// response for marshalling JSON responses to return to clients
	type response struct {
		Base   pnl.Currency `json:"base"`
		Quotes pnl.Rates    `json:"quotes"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")

		snapshot, err := s.Exchange.Snapshot(r.Context())
		if err != nil {
			writeError(rw, http.StatusBadGateway, err)
			return
		}

		encode(rw, response{Base: snapshot.Base, Quotes: snapshot.Quotes})
	}
}

// export produces the HTTP handler pushing a calculation into the CRM
func (s *Server) export() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		DealName string                 `json:"dealName"`
		Request  pnl.CalculationRequest `json:"request"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		DealID string `json:"dealId"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		rw.Header().Set("Content-Type", "application/json")

		bytes, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(rw, http.StatusBadRequest, errors.New("invalid request"))
			return
		}
		var req request
		if err := json.Unmarshal(bytes, &req); err != nil {
			writeError(rw, http.StatusBadRequest, errors.New("invalid json"))
			return
		}
		if req.DealName == "" {
			writeError(rw, http.StatusBadRequest, errors.New("dealName must not be empty"))
			return
		}

		snapshot, err := s.Exchange.Snapshot(r.Context())
		if err != nil {
			writeError(rw, http.StatusBadGateway, err)
			return
		}

		result, err := s.Engine.Calculate(r.Context(), req.Request, snapshot)
		if err != nil {
			writeError(rw, errorStatus(err), err)
			return
		}

		dealID, err := s.Exporter.CreateDeal(r.Context(), req.DealName, req.Request, result)
		if err != nil {
			if errors.Is(err, hubspot.ErrNotConfigured) {
				writeError(rw, http.StatusServiceUnavailable, err)
				return
			}
			writeError(rw, http.StatusBadGateway, err)
			return
		}

		encode(rw, response{DealID: dealID})
	}
}

// decodeRequest parses a CalculationRequest body, writing the 400 itself on
// failure. Raw text to number parsing happens here, at the boundary: the
// engine only ever sees typed values.
func decodeRequest(rw http.ResponseWriter, body io.Reader) (pnl.CalculationRequest, bool) {
	bytes, err := io.ReadAll(body)
	if err != nil {
		writeError(rw, http.StatusBadRequest, errors.New("invalid request"))
		return pnl.CalculationRequest{}, false
	}
	var request pnl.CalculationRequest
	if err := json.Unmarshal(bytes, &request); err != nil {
		writeError(rw, http.StatusBadRequest, errors.New("invalid json"))
		return pnl.CalculationRequest{}, false
	}
	return request, true
}

// errorStatus maps engine and rate errors onto HTTP statuses.
func errorStatus(err error) int {
	var (
		input *pnl.InvalidInputError
		loss  *pnl.InvalidLossError
		rate  *pnl.InvalidRateError
		fetch *pnl.RateFetchError
	)
	switch {
	case errors.As(err, &input), errors.As(err, &loss), errors.As(err, &rate):
		return http.StatusBadRequest
	case errors.As(err, &fetch):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(rw http.ResponseWriter, status int, err error) {
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}

func encode(rw http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		_, _ = rw.Write([]byte(`{"error": "failed json encoding"}`))
	}
}
