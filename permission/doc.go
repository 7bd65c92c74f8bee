// Package permission defines the closed, ordered role enumeration used by
// authorization checks.
//
// # Ordering
//
// Roles are totally ordered by privilege: [SuperAdmin] ⊇ [Admin] ⊇ [User].
// [Role.AtLeast] answers "may this caller reach a handler gated at min", and
// [Role.CanManage] answers "may this caller act on that account".
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Compare roles by string containment.
package permission
