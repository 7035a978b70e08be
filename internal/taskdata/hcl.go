package taskdata

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclTaskFile is the top-level structure of a task file:
//
//	task "B" {
//	  duration   = 3
//	  depends_on = ["A"]
//	  predecessor "C" {
//	    type = "SS"
//	    lag  = 2
//	  }
//	}
type hclTaskFile struct {
	Tasks []*hclTask `hcl:"task,block"`
}

type hclTask struct {
	ID           string            `hcl:"id,label"`
	Duration     int               `hcl:"duration,optional"`
	DependsOn    []string          `hcl:"depends_on,optional"`
	Predecessors []*hclPredecessor `hcl:"predecessor,block"`
}

type hclPredecessor struct {
	ID   string `hcl:"id,label"`
	Type string `hcl:"type,optional"`
	Lag  int    `hcl:"lag,optional"`
}

// ParseHCL parses an HCL task file. Finish-to-start ids listed in depends_on
// come before the predecessor blocks.
func ParseHCL(name string, data []byte) ([]Record, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, &ParseError{Source: name, Index: -1, Msg: diags.Error()}
	}

	var parsed hclTaskFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, &ParseError{Source: name, Index: -1, Msg: diags.Error()}
	}

	records := make([]Record, 0, len(parsed.Tasks))
	for i, t := range parsed.Tasks {
		rec := Record{ID: t.ID, Duration: t.Duration}
		for _, id := range t.DependsOn {
			rec.Predecessors = append(rec.Predecessors, PredecessorRecord{ID: id})
		}
		for _, p := range t.Predecessors {
			if p == nil {
				return nil, &ParseError{Source: name, Index: i, Msg: fmt.Sprintf("task %q: empty predecessor block", t.ID)}
			}
			rec.Predecessors = append(rec.Predecessors, PredecessorRecord{ID: p.ID, Type: p.Type, Lag: p.Lag})
		}
		records = append(records, rec)
	}
	return records, nil
}
