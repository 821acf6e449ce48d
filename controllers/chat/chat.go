package chatControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hackerette0/ecommerce--ly/httperr"
)

const geminiModel = "gemini-1.5-flash"

const systemPrompt = `You are Aly's expert beauty & skincare shopping assistant - warm, knowledgeable, modern, slightly playful, and always helpful.

Core rules:
- Speak in natural, conversational Indian English (casual but polite)
- Be extremely specific and helpful - name real product types, ingredients, benefits
- Tailor every answer to the user's skin type, concern, budget, or question
- When recommending: suggest 2-4 realistic products/categories and why they suit
- If no skin type given, gently ask for it
- Delivery in India: 3-7 days, free over Rs.999. Returns: 7 days, unopened products only
- Never invent exact prices; give ranges instead
- Never give medical advice; suggest a dermatologist for skin concerns
- Keep answers concise but rich (under 180 words unless asked for detail)`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []chatMessage `json:"conversationHistory"`
	ImageBase64         string        `json:"imageBase64"`
	Context             string        `json:"context"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  map[string]any  `json:"generationConfig"`
	SystemInstruction geminiContent   `json:"systemInstruction"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var chatClient = &http.Client{Timeout: 30 * time.Second}

// POST /chat — relays the conversation to Gemini and returns the reply.
func ChatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid input: "+err.Error()))
			return
		}
		if req.Message == "" && req.ImageBase64 == "" {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Message or image required"))
			return
		}

		history := req.ConversationHistory
		if len(history) > 10 {
			history = history[len(history)-10:]
		}

		var contents []geminiContent
		for _, msg := range history {
			role := "model"
			if msg.Role == "user" {
				role = "user"
			}
			contents = append(contents, geminiContent{
				Role:  role,
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}

		var currentParts []geminiPart
		if req.Message != "" {
			currentParts = append(currentParts, geminiPart{Text: strings.TrimSpace(req.Message)})
		}
		if req.ImageBase64 != "" {
			currentParts = append(currentParts, geminiPart{InlineData: &geminiInlineData{
				MimeType: "image/jpeg",
				Data:     req.ImageBase64,
			}})
		}
		contents = append(contents, geminiContent{Role: "user", Parts: currentParts})

		payload := geminiRequest{
			Contents: contents,
			GenerationConfig: map[string]any{
				"temperature":     0.7,
				"maxOutputTokens": 500,
				"topP":            0.9,
			},
			SystemInstruction: geminiContent{
				Parts: []geminiPart{{Text: systemPrompt + "\n\nContext: " + req.Context}},
			},
		}

		jsonData, err := json.Marshal(payload)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
			geminiModel, os.Getenv("GEMINI_API_KEY"))
		httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := chatClient.Do(httpReq)
		if err != nil {
			zap.L().Error("gemini request failed", zap.Error(err))
			httperr.Respond(c, httperr.Server.WithMessage("Failed to get AI response. Please try again later."))
			return
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			zap.L().Error("gemini API error",
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", body),
			)
			msg := "Failed to get AI response. Please try again later."
			switch resp.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				msg = "AI service is misconfigured - check the API key."
			case http.StatusTooManyRequests:
				msg = "Rate limit reached - try again in a minute."
			}
			httperr.Respond(c, httperr.Server.WithMessage(msg))
			return
		}

		var geminiResp geminiResponse
		if err := json.Unmarshal(body, &geminiResp); err != nil {
			httperr.Respond(c, err)
			return
		}

		reply := "No response from the assistant. Try again!"
		if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
			reply = geminiResp.Candidates[0].Content.Parts[0].Text
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}
