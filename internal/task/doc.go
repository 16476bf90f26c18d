// Package task defines the task record and its JSON document form.
//
// A task document looks like:
//
//	{
//	  "id": 1,
//	  "title": "Write report",
//	  "description": "Quarterly numbers",
//	  "priority": 3,
//	  "status": "In Progress",
//	  "createdAt": "2025-01-10 09:30:00",
//	  "dueDate": "2025-02-01",
//	  "tags": ["work"]
//	}
//
// # Priority
//
//   - 1: Low
//   - 2: Normal (default)
//   - 3: High
//   - 4: Critical
//
// # Status Values
//
//   - "Pending": not started (default)
//   - "In Progress": being worked on
//   - "Done": complete, never overdue
//   - "Cancelled": abandoned
//
// Decoding also accepts the keys and status strings of legacy French files
// (titre, priorite, statut, date_creation, date_echeance). Encoding always
// writes the keys above.
package task
