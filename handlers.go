package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"recpay/models"
	"recpay/pkg/ledger"
	"recpay/pkg/receiptocr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/initiate-payment", initiatePaymentHandler)
	r.POST("/confirm-payment", confirmPaymentHandler)
	r.GET("/payment-gate-status", gateStatusHandler)
	r.POST("/payments/:txid/receipt", uploadReceiptHandler)
	r.POST("/admin/login", adminLoginHandler)
	adminGroup := r.Group("/admin")
	adminGroup.Use(jwtAuthMiddleware())
	adminGroup.POST("/set-gate-status", setGateStatusHandler)
	adminGroup.GET("/payments", listPaymentsHandler)
	adminGroup.GET("/trash", listTrashHandler)
	adminGroup.GET("/receipts", listReceiptsHandler)
	adminGroup.POST("/trash/:id", trashPaymentHandler)
	adminGroup.POST("/restore/:id", restorePaymentHandler)
	adminGroup.POST("/purge/:id", purgePaymentHandler)
	adminGroup.POST("/trash-all", trashAllHandler)
	adminGroup.POST("/restore-all", restoreAllHandler)
	adminGroup.POST("/purge-trashed", purgeTrashedHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)
		if role != "administrator" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "administrator access required"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		c.Set("username", username)
		c.Next()
	}
}

// submissionRequest is the loosely-typed boundary for both phases of the
// public submission flow. Fields are validated by the lifecycle controller,
// not by binding tags, so rejections carry user-facing reasons.
type submissionRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
}

func (r submissionRequest) submission() ledger.Submission {
	return ledger.Submission{Name: r.Name, Phone: r.Phone, Address: r.Address, Amount: r.Amount}
}

// writeCoreError maps the core error taxonomy onto HTTP statuses.
func writeCoreError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
	case errors.Is(err, ledger.ErrPaymentsPaused):
		c.JSON(http.StatusForbidden, gin.H{"error": "payments are currently paused"})
	case errors.Is(err, ledger.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "could not allocate a transaction id, please retry"})
	case errors.Is(err, ledger.ErrCapacityExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "daily payment capacity exceeded"})
	case errors.Is(err, ledger.ErrInvalidGateStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// initiatePaymentHandler quotes a transfer target for the payer. Nothing is
// persisted here; the payer completes the transfer in their own UPI app.
func initiatePaymentHandler(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	target, err := lifecycle.Initiate(req.submission())
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfer_target": target})
}

// confirmPaymentHandler records a payment the user asserts is complete.
func confirmPaymentHandler(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rec, err := lifecycle.Confirm(req.submission())
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "payment": rec})
}

func gateStatusHandler(c *gin.Context) {
	v, err := store.GateStatus()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": v})
}

func adminLoginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := Authenticate(req.Username, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
		return
	}
	token, err := issueAdminToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func setGateStatusHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := store.SetGateStatus(req.Status); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "value": req.Status})
}

func listPaymentsHandler(c *gin.Context) {
	items, err := store.ListActive()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func listTrashHandler(c *gin.Context) {
	items, err := store.ListTrashed()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func listReceiptsHandler(c *gin.Context) {
	items, err := store.ListReceipts()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// paymentID parses the :id route param; responds 400 and returns false on garbage.
func paymentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// The single-record state transitions are idempotent soft no-ops: a missing
// or wrong-state id responds 200 with success=false, never an error.
func trashPaymentHandler(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	changed, err := store.Trash(id)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": changed})
}

func restorePaymentHandler(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	changed, err := store.Restore(id)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": changed})
}

func purgePaymentHandler(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	changed, err := store.Purge(id)
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": changed})
}

func trashAllHandler(c *gin.Context) {
	n, err := store.TrashAll()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}

func restoreAllHandler(c *gin.Context) {
	n, err := store.RestoreAll()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}

func purgeTrashedHandler(c *gin.Context) {
	n, err := store.PurgeAllTrashed()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}

// uploadReceiptHandler accepts a proof-of-payment screenshot for a confirmed
// payment. OCR extracts the amount as an advisory cross-check only; a
// mismatch or failure never touches the payment row itself.
func uploadReceiptHandler(c *gin.Context) {
	txid := c.Param("txid")
	payment, err := store.FindByTransactionID(txid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	baseDir := receiptBaseDir()
	relPath := txid + "/" + file.Filename
	fullPath := baseDir + "/" + relPath
	if err := os.MkdirAll(baseDir+"/"+txid, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	rec := models.Receipt{
		PaymentID:   payment.ID,
		FileName:    file.Filename,
		StorePath:   relPath,
		ContentType: file.Header.Get("Content-Type"),
	}
	if amt, conf, raw, err := receiptocr.ExtractAmountPaise(fullPath); err != nil {
		rec.Failed = true
		rec.FailedReason = err.Error()
		log.Printf("receipt OCR failed for %s: %v", txid, err)
	} else {
		rec.Amount = amt
		rec.Confidence = conf
		rec.Matched = amt == payment.Amount
		log.Printf("receipt OCR %s: amount=%d conf=%.2f raw=%q matched=%v", txid, amt, conf, raw, rec.Matched)
	}
	if err := store.InsertReceipt(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "path": relPath, "matched": rec.Matched, "amount_paise": rec.Amount})
}
