// Package harness runs board lifecycle scenarios as executable contract tests.
//
// A scenario saves and deletes board documents against a host catalog,
// checks each step's outcome, and then asserts on the stored boards.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalog: ../catalog.yaml
//	rank_field_id: 10100
//	steps:
//	  - save: ../boards/full.json
//	    user: alice
//	  - save: ../boards/full.json
//	    board: TST            # replace the stored board with this code
//	    user: bob
//	  - save: ../boards/owner_links.json
//	    user: alice
//	    expect:
//	      error: E220
//	      field: projects.TDP.state-links
//	  - delete: TST
//	assertions:
//	  - type: board_count
//	    count: 0
//
// Paths are relative to the scenario file. A step without an expect clause
// must succeed. Expected errors are validation codes (E2xx) or one of
// "not_found" and "conflict".
//
// # Assertion Types
//
//   - board_count: number of stored boards
//   - board_owner: owning user of a stored board
//   - revision_count: number of saves recorded for a board
//   - board_states: state names of a stored board, in column order
//   - same_hash: the listed save steps stored identical configurations
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory database with sequential
// revision ids, so step outcomes compare exactly against golden files.
package harness
