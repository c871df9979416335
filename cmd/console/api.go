package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/jwebster45206/mystery-engine/pkg/evidence"
	"github.com/jwebster45206/mystery-engine/pkg/session"
)

// API response mirrors. The console talks to the API over the wire, so it
// carries its own copies of the handler response shapes.

type CaseView struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Setting      string        `json:"setting"`
	Victim       string        `json:"victim"`
	MurderWeapon string        `json:"murder_weapon"`
	MurderTime   string        `json:"murder_time"`
	Suspects     []SuspectView `json:"suspects"`
}

type SuspectView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
	Title string `json:"title"`
	Bio   string `json:"bio,omitempty"`
}

type ActionResult struct {
	Utterance        string           `json:"utterance"`
	Evidence         *evidence.Record `json:"evidence,omitempty"`
	ActionsRemaining int              `json:"actions_remaining"`
	GameOver         bool             `json:"game_over"`
}

type SolveResponse struct {
	Solved bool   `json:"solved"`
	Killer string `json:"killer"`
	Motive string `json:"motive"`
	Method string `json:"method"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON performs one API call and decodes the response into out (when out
// is non-nil). Non-expected statuses are surfaced as errors using the API's
// error body.
func doJSON(client *http.Client, method, url string, reqBody any, expectStatus int, out any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != expectStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func listCases(client *http.Client, baseURL string) ([]string, map[string]string, error) {
	var caseMap map[string]string
	if err := doJSON(client, http.MethodGet, baseURL+"/v1/cases", nil, http.StatusOK, &caseMap); err != nil {
		return nil, nil, err
	}

	// Display name -> case ID, sorted by title
	titleToID := make(map[string]string, len(caseMap))
	var titles []string
	for id, title := range caseMap {
		titleToID[title] = id
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles, titleToID, nil
}

func getCase(client *http.Client, baseURL, caseID string) (*CaseView, error) {
	var c CaseView
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/cases/%s", baseURL, caseID), nil, http.StatusOK, &c); err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &c, nil
}

func createSession(client *http.Client, baseURL, caseID string) (*session.State, error) {
	req := map[string]string{"case_id": caseID}
	var s session.State
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/sessions", req, http.StatusCreated, &s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

func askSuspect(client *http.Client, baseURL string, id uuid.UUID, suspectID, question string) (*ActionResult, error) {
	req := map[string]string{"suspect_id": suspectID, "question": question}
	var result ActionResult
	if err := doJSON(client, http.MethodPost, fmt.Sprintf("%s/v1/sessions/%s/ask", baseURL, id), req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func inspectTarget(client *http.Client, baseURL string, id uuid.UUID, target string) (*ActionResult, error) {
	req := map[string]string{"target": target}
	var result ActionResult
	if err := doJSON(client, http.MethodPost, fmt.Sprintf("%s/v1/sessions/%s/inspect", baseURL, id), req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func solveCase(client *http.Client, baseURL string, id uuid.UUID, suspectID string) (*SolveResponse, error) {
	req := map[string]string{"suspect_id": suspectID}
	var result SolveResponse
	if err := doJSON(client, http.MethodPost, fmt.Sprintf("%s/v1/sessions/%s/solve", baseURL, id), req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
