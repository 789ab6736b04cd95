package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/expungepa/petition-builder/internal/database"
)

type petitionCollection struct {
	Entities struct {
		Petitions map[string]map[string]any `json:"petitions"`
		Cases     map[string]map[string]any `json:"cases"`
		Charges   map[string]map[string]any `json:"charges"`
	} `json:"entities"`
	PetitionIDs       []string `json:"petitionIds"`
	EditingPetitionID *string  `json:"editingPetitionId"`
}

type petitionResponse struct {
	Success bool               `json:"success"`
	Data    petitionCollection `json:"data"`
}

func TestPetitionWorkflow(t *testing.T) {
	router, db := setupTestRouter("")

	// Ingest the applicant's record first
	doJSON(router, "POST", "/api/record", testRecord())

	// Create a petition from a seed
	w := doJSON(router, "POST", "/api/petitions", map[string]any{
		"attorney":     map[string]any{"name": "S. Alvarez", "bar_id": "123456"},
		"organization": "Legal Aid",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var created petitionResponse
	json.Unmarshal(w.Body.Bytes(), &created)

	if len(created.Data.PetitionIDs) != 1 {
		t.Fatalf("Expected 1 petition id, got %v", created.Data.PetitionIDs)
	}
	petitionID := created.Data.PetitionIDs[0]
	if petitionID != "0" {
		t.Errorf("Expected first petition to get id 0, got %q", petitionID)
	}
	if created.Data.EditingPetitionID == nil || *created.Data.EditingPetitionID != petitionID {
		t.Error("Expected new petition to become the editing petition")
	}

	// Attach a case from the record
	w = doJSON(router, "POST", "/api/petitions/"+petitionID+"/cases", map[string]any{
		"case_id":       "CP-51-CR-0001234-2015",
		"case_defaults": map[string]any{"county": "Philadelphia"},
		"charge_info":   map[string]any{"offense": "Retail Theft", "grade": "M1"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var withCase petitionResponse
	json.Unmarshal(w.Body.Bytes(), &withCase)

	caseDoc, ok := withCase.Data.Entities.Cases["CP-51-CR-0001234-2015"]
	if !ok {
		t.Fatal("Case snapshot missing from petition collection")
	}
	if caseDoc["county"] != "Philadelphia" {
		t.Errorf("Expected case defaults applied, got %v", caseDoc["county"])
	}
	if _, ok := withCase.Data.Entities.Charges["CP-51-CR-0001234-2015charges@0"]; !ok {
		t.Error("Charge snapshot missing from petition collection")
	}

	// Attaching the same case again must not duplicate it
	w = doJSON(router, "POST", "/api/petitions/"+petitionID+"/cases", map[string]any{
		"case_id": "CP-51-CR-0001234-2015",
	})
	var again petitionResponse
	json.Unmarshal(w.Body.Bytes(), &again)

	petition := again.Data.Entities.Petitions[petitionID]
	caseIDs, _ := petition["cases"].([]any)
	if len(caseIDs) != 1 {
		t.Errorf("Expected case to be attached exactly once, got %v", caseIDs)
	}

	// Partial update deep-merges without losing siblings
	w = doJSON(router, "PATCH", "/api/petitions/"+petitionID, map[string]any{
		"attorney": map[string]any{"bar_id": "654321"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var updated petitionResponse
	json.Unmarshal(w.Body.Bytes(), &updated)

	attorney, _ := updated.Data.Entities.Petitions[petitionID]["attorney"].(map[string]any)
	if attorney["bar_id"] != "654321" || attorney["name"] != "S. Alvarez" {
		t.Errorf("Expected deep merge to keep attorney name, got %v", attorney)
	}

	// Generate the package
	w = doJSON(router, "POST", "/api/petitions/generate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var pkg struct {
		Success   bool             `json:"success"`
		Petitions []map[string]any `json:"petitions"`
	}
	json.Unmarshal(w.Body.Bytes(), &pkg)

	if len(pkg.Petitions) != 1 {
		t.Fatalf("Expected 1 generated petition, got %d", len(pkg.Petitions))
	}
	nestedCases, _ := pkg.Petitions[0]["cases"].([]any)
	if len(nestedCases) != 1 {
		t.Fatalf("Expected petition to carry its nested case, got %v", pkg.Petitions[0]["cases"])
	}
	nested, _ := nestedCases[0].(map[string]any)
	if nested["docket_number"] != "CP-51-CR-0001234-2015" {
		t.Errorf("Expected nested case document, got %v", nested)
	}

	var pkgCount int64
	db.Model(&database.GeneratedPackage{}).Count(&pkgCount)
	if pkgCount != 1 {
		t.Errorf("Expected 1 generated package log, got %d", pkgCount)
	}

	// Delete the petition
	w = doJSON(router, "DELETE", "/api/petitions/"+petitionID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var deleted petitionResponse
	json.Unmarshal(w.Body.Bytes(), &deleted)

	if len(deleted.Data.PetitionIDs) != 0 {
		t.Errorf("Expected no petitions after delete, got %v", deleted.Data.PetitionIDs)
	}
	if deleted.Data.EditingPetitionID != nil {
		t.Error("Expected editing petition cleared after delete")
	}
}

func TestUpdateUnknownPetition(t *testing.T) {
	router, _ := setupTestRouter("")

	w := doJSON(router, "PATCH", "/api/petitions/99", map[string]any{"organization": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestSetEditingPetition(t *testing.T) {
	router, _ := setupTestRouter("")

	doJSON(router, "POST", "/api/petitions", map[string]any{"organization": "Legal Aid"})

	// Clear the editing petition
	w := doJSON(router, "PUT", "/api/petitions/editing", map[string]any{"petition_id": nil})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var cleared petitionResponse
	json.Unmarshal(w.Body.Bytes(), &cleared)
	if cleared.Data.EditingPetitionID != nil {
		t.Error("Expected editing petition cleared")
	}

	// And set it back
	w = doJSON(router, "PUT", "/api/petitions/editing", map[string]any{"petition_id": "0"})
	var set petitionResponse
	json.Unmarshal(w.Body.Bytes(), &set)
	if set.Data.EditingPetitionID == nil || *set.Data.EditingPetitionID != "0" {
		t.Error("Expected editing petition set to 0")
	}
}

func TestIngestTwoRecordsAppendsCases(t *testing.T) {
	router, _ := setupTestRouter("")

	doJSON(router, "POST", "/api/record", testRecord())

	second := map[string]any{
		"cases": []any{
			map[string]any{"docket_number": "MC-51-CR-0009876-2020", "charges": []any{}},
		},
	}
	w := doJSON(router, "POST", "/api/record", second)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/record", nil)
	router.ServeHTTP(w, req)

	var response struct {
		Data struct {
			CRecord map[string]map[string]any `json:"cRecord"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	caseIDs, _ := response.Data.CRecord["root"]["cases"].([]any)
	if len(caseIDs) != 2 {
		t.Fatalf("Expected 2 cases after second ingest, got %v", caseIDs)
	}
	if caseIDs[0] != "CP-51-CR-0001234-2015" || caseIDs[1] != "MC-51-CR-0009876-2020" {
		t.Errorf("Expected appended case order, got %v", caseIDs)
	}
}
