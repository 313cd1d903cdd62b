package scrape

import (
	"strings"
	"testing"
)

const houseHTML = `
<html><body><table>
<tr><th>Name</th><th>Party</th><th>State</th><th>District</th></tr>
<tr>
  <td>Jane Smith (link is external)</td>
  <td>D</td>
  <td>California 12th</td>
  <td>12</td>
</tr>
<tr>
  <td>Robert Van Winkle</td>
  <td>R</td>
  <td>Texas 3rd</td>
  <td>3</td>
</tr>
<tr><td>incomplete</td><td>row</td></tr>
</table></body></html>`

const senateHTML = `
<html><body><table>
<tr><th>Name</th><th>Party</th><th>State</th></tr>
<tr><td>Ted Cruz</td><td>R</td><td>TX</td></tr>
<tr><td></td><td>D</td><td>CA</td></tr>
<tr><td>Amy Klobuchar</td><td>D</td><td>MN</td></tr>
</table></body></html>`

func TestParseHouseTable(t *testing.T) {
	members, err := ParseHouseTable(strings.NewReader(houseHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	jane := members[0]
	if jane.FirstName != "Jane" || jane.LastName != "Smith" {
		t.Errorf("expected Jane Smith with link noise stripped, got %q %q", jane.FirstName, jane.LastName)
	}
	if jane.State != "California" {
		t.Errorf("expected state California, got %q", jane.State)
	}
	if jane.District == nil || *jane.District != "12" {
		t.Errorf("expected district 12, got %v", jane.District)
	}
	if jane.Office != "House" {
		t.Errorf("expected office House, got %q", jane.Office)
	}

	// Multi-word last names keep everything after the first token.
	rob := members[1]
	if rob.FirstName != "Robert" || rob.LastName != "Van Winkle" {
		t.Errorf("unexpected split: %q %q", rob.FirstName, rob.LastName)
	}
}

func TestParseSenateTableSkipsIncompleteRows(t *testing.T) {
	members, err := ParseSenateTable(strings.NewReader(senateHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 senators, got %d", len(members))
	}
	if members[0].FirstName != "Ted" || members[0].LastName != "Cruz" || members[0].State != "TX" {
		t.Errorf("unexpected senator: %+v", members[0])
	}
	if members[0].District != nil {
		t.Error("senators have no district")
	}
	if members[0].Office != "Senate" {
		t.Errorf("expected office Senate, got %q", members[0].Office)
	}
}
