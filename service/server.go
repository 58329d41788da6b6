package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"port-scanner/config"
	"port-scanner/config/constant"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// scanRequestBody 区分字段缺省和显式传 0，用有符号整数接收，负数交给 Validate 报范围错误
type scanRequestBody struct {
	Host        string `json:"host"`
	StartPort   int    `json:"start_port"`
	EndPort     int    `json:"end_port"`
	Timeout     *int   `json:"timeout"`
	Concurrency *int   `json:"concurrency"`
}

// toUint 负数按 0 处理，0 在 Validate 中一定越界
func toUint(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Server 对外提供 HTTP 扫描接口
type Server struct {
	// 引擎状态
	status atomic.Int32

	addr    string
	scanner *BatchScanner
	limits  config.Limits
}

// NewServer 创建新的 Server
func NewServer(addr string, scanner *BatchScanner, limits config.Limits) *Server {
	s := &Server{
		addr:    addr,
		scanner: scanner,
		limits:  limits,
	}
	s.status.Store(int32(constant.EngineInit))
	return s
}

// Status 返回引擎状态
func (s *Server) Status() constant.EngineStatus {
	return constant.EngineStatus(s.status.Load())
}

// Handler 返回路由，/ 和 /port-scan 等价
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleScan)
	mux.HandleFunc("/port-scan", s.handleScan)
	return mux
}

// Run 启动 HTTP 服务，ctx 取消后优雅退出
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.ListenAndServe()
	}()
	s.status.Store(int32(constant.EngineRunning))
	logger.Infof("Server listening on %s", s.addr)

	defer func() {
		s.status.Store(int32(constant.EngineStop))
		logger.Infof("Server exit.")
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Error when shutdown server, error: %+v", err)
			return err
		}
		return nil
	}
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	tag := "[Server-" + uuid.NewString()[:8] + "]"

	var body scanRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warnf("%s Invalid request body, error: %+v", tag, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	req := ScanRequest{
		Host:        body.Host,
		StartPort:   toUint(body.StartPort),
		EndPort:     toUint(body.EndPort),
		Timeout:     constant.DefaultTimeout,
		Concurrency: constant.DefaultConcurrency,
	}
	if req.Host == "" {
		req.Host = constant.DefaultHost
	}
	if body.Timeout != nil {
		req.Timeout = toUint(*body.Timeout)
	}
	if body.Concurrency != nil {
		req.Concurrency = toUint(*body.Concurrency)
	}

	if err := req.Validate(s.limits); err != nil {
		logger.Infof("%s Rejected request %+v, error: %v", tag, req, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	logger.Infof("%s Scan request: %s:%d-%d (private: %v)", tag, req.Host, req.StartPort, req.EndPort, IsPrivateHost(req.Host))

	outcome, err := s.scanner.Scan(req)
	if err != nil {
		logger.Errorf("%s Scan error: %+v", tag, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Scan failed", Details: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ScanResponse{Success: true, ScanOutcome: outcome})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("Error when write response, error: %+v", err)
	}
}
