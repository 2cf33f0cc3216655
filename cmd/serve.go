package cmd

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jsphweid/scoretree/constants"
	"github.com/jsphweid/scoretree/convert"
	"github.com/jsphweid/scoretree/db"
	"github.com/jsphweid/scoretree/midi"
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/jsphweid/scoretree/structure"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveRecord bool

func init() {
	serveCmd.Flags().BoolVar(&serveRecord, "record", false, "catalogue converted scores in DynamoDB")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over HTTP",
	Long: `Serves POST /convert (MusicXML body), GET /scores/{id}, GET /scores/{id}/midi,
GET /records?ids=... and GET /health on PORT.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(os.Stderr)
		var store *db.Store
		if serveRecord {
			var err error
			store, err = db.NewStore()
			cobra.CheckErr(err)
		}
		addr := ":" + constants.GetPort()
		log.Info("serving", "addr", addr, "record", serveRecord)
		s, err := NewServer(log, store)
		cobra.CheckErr(err)
		cobra.CheckErr(http.ListenAndServe(addr, s.Router()))
	},
}

// Server converts uploads and keeps the most recently used results in
// memory by id.
type Server struct {
	log             *slog.Logger
	store           *db.Store
	maxUploadBytes  int64
	ticksPerQuarter uint16
	scores          *lru.Cache[string, *structure.Composition]
}

// NewServer builds a server. A nil store disables the records catalogue.
func NewServer(log *slog.Logger, store *db.Store) (*Server, error) {
	scores, err := lru.New[string, *structure.Composition](constants.GetMaxStoredScores())
	if err != nil {
		return nil, errors.Wrap(err, "creating score cache")
	}
	return &Server{
		log:             log,
		store:           store,
		maxUploadBytes:  constants.GetMaxUploadBytes(),
		ticksPerQuarter: constants.GetTicksPerQuarter(),
		scores:          scores,
	}, nil
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/convert", s.HandleConvert).Methods(http.MethodPost)
	router.HandleFunc("/scores/{id}", s.HandleScore).Methods(http.MethodGet)
	router.HandleFunc("/scores/{id}/midi", s.HandleMidi).Methods(http.MethodGet)
	router.HandleFunc("/records", s.HandleRecords).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := scoreerr.KindOf(err)
	switch kind {
	case scoreerr.Input, scoreerr.Malformed:
		status = http.StatusBadRequest
	case scoreerr.Unsupported:
		status = http.StatusUnprocessableEntity
	}
	res := model.ErrorResponse{Error: err.Error()}
	if kind != 0 {
		res.Kind = kind.String()
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, res)
}

func (s *Server) HandleConvert(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	id := uuid.New().String()
	c, err := convert.FromReader(body, convert.Options{Logger: s.log.With("id", id)})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "upload too large"})
			return
		}
		s.writeError(w, err)
		return
	}

	data, err := json.Marshal(c)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.scores.Add(id, c) {
		s.log.Debug("evicted oldest score", "stored", s.scores.Len())
	}

	if s.store != nil {
		record := newRecord(r.URL.Query().Get("name"), c)
		record.ID = id
		if err := s.store.PutScoreRecord(record); err != nil {
			s.log.Warn("could not record score", "id", id, "err", err)
		}
	}
	s.log.Info("converted upload", "id", id, "title", c.Title, "parts", len(c.Parts))
	writeJSON(w, http.StatusOK, model.ConvertResponse{ID: id, Composition: data})
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) (*structure.Composition, bool) {
	id := mux.Vars(r)["id"]
	c, ok := s.scores.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "no score with id " + id})
	}
	return c, ok
}

func (s *Server) HandleScore(w http.ResponseWriter, r *http.Request) {
	if c, ok := s.score(w, r); ok {
		writeJSON(w, http.StatusOK, c)
	}
}

func (s *Server) HandleMidi(w http.ResponseWriter, r *http.Request) {
	c, ok := s.score(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	if err := midi.Write(w, c, s.ticksPerQuarter); err != nil {
		s.log.Error("could not render midi", "err", err)
	}
}

func (s *Server) HandleRecords(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{Error: "records are not enabled"})
		return
	}
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	records, err := s.store.GetScoreRecords(ids)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res := model.RecordsResponse{Records: make([]model.ScoreRecord, 0, len(records))}
	for _, id := range ids {
		if record, ok := records[id]; ok {
			res.Records = append(res.Records, record)
		}
	}
	writeJSON(w, http.StatusOK, res)
}
