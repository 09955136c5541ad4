// Package billing holds the school fee ledger domain model.
//
// The ledger tracks money owed to and spent by a school:
//   - FeeStructure: a catalog entry describing a chargeable fee (tuition,
//     transport, library, exam) with its amount, frequency, and the classes
//     it applies to
//   - Invoice: a charge issued to a student against a fee structure, with a
//     sequential display code, a due date, and a Pending/Partial/Paid status
//     machine (Overdue is derived at read time, never persisted)
//   - Payment: a settlement recorded against an invoice; only completed
//     payments count toward an invoice's balance
//   - Expense: an outgoing school expenditure, kept for reporting
//
// Money is decimal throughout. Invoice balances are always recomputed from
// completed payments rather than read from a stored column, and invoice
// mutation is guarded by an optimistic version counter.
package billing
