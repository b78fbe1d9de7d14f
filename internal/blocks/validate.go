package blocks

import "strconv"

const (
	CodeEmptyBlocks    = "EMPTY_BLOCKS"
	CodeMissingBlockID = "MISSING_BLOCK_ID"
	CodeDuplicateID    = "DUPLICATE_BLOCK_ID"
)

// ValidationError points at one malformed block.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationResult lists every problem found; it never stops at the first.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// Validate checks the forest: it must be non-empty and every block needs a
// unique blockId. Paths read "[i]" at the root and "parent.children[i]" below.
func Validate(list []Block) ValidationResult {
	errs := []ValidationError{}
	if len(list) == 0 {
		errs = append(errs, ValidationError{
			Path:    "/",
			Message: "At least one block is required",
			Code:    CodeEmptyBlocks,
		})
	}
	seen := map[string]string{}
	validateLevel(list, "", seen, &errs)
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateLevel(list []Block, prefix string, seen map[string]string, errs *[]ValidationError) {
	for i, block := range list {
		path := prefix + "[" + strconv.Itoa(i) + "]"
		switch first, dup := seen[block.BlockID]; {
		case block.BlockID == "":
			*errs = append(*errs, ValidationError{
				Path:    path,
				Message: "Block must have a blockId",
				Code:    CodeMissingBlockID,
			})
		case dup:
			*errs = append(*errs, ValidationError{
				Path:    path,
				Message: "Block id " + block.BlockID + " already used at " + first,
				Code:    CodeDuplicateID,
			})
		default:
			seen[block.BlockID] = path
		}
		if len(block.Children) > 0 {
			validateLevel(block.Children, path+".children", seen, errs)
		}
	}
}
