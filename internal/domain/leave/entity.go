package leave

// StatusApproved is the only leave status that suppresses automatic attendance.
const StatusApproved = "approved"
