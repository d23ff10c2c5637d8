package mysql

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (username, email, first_name, last_name)
VALUES (?, ?, ?, ?)
`

const getUserSQL = `
SELECT id, username, email, first_name, last_name, created_at
FROM users
WHERE id = ?
`

// -----------------------------------------------------------------------------
// LISTINGS
// -----------------------------------------------------------------------------

const insertListingSQL = `
INSERT INTO listings
  (title, description, location, price_per_night, max_guests, bedrooms,
   bathrooms, amenities, availability, host_id, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Rating aggregates are computed on read, never stored.
const getListingSQL = `
SELECT
  l.id, l.title, l.description, l.location, l.price_per_night,
  l.max_guests, l.bedrooms, l.bathrooms, l.amenities, l.availability,
  l.host_id, l.is_active, l.created_at, l.updated_at,
  COALESCE(ROUND(AVG(r.rating), 1), 0) AS average_rating,
  COUNT(r.id) AS reviews_count
FROM listings l
LEFT JOIN reviews r ON r.listing_id = l.id
WHERE l.id = ? AND l.is_active = 1
GROUP BY l.id
`

const updateListingSQL = `
UPDATE listings
SET title = ?, description = ?, location = ?, price_per_night = ?,
    max_guests = ?, bedrooms = ?, bathrooms = ?, amenities = ?,
    availability = ?
WHERE id = ? AND is_active = 1
`

// Soft delete; bookings and reviews stay attached for history.
const deleteListingSQL = `
UPDATE listings SET is_active = 0 WHERE id = ? AND is_active = 1
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

// Locks the listing row for the duration of the booking transaction so two
// concurrent creates serialize on the same listing before the overlap check.
const lockListingSQL = `
SELECT price_per_night, max_guests, availability
FROM listings
WHERE id = ? AND is_active = 1
FOR UPDATE
`

// [a,b) and [c,d) overlap iff a < d AND c < b.
const overlapExistsSQL = `
SELECT EXISTS (
  SELECT 1 FROM bookings
  WHERE listing_id = ?
    AND status <> 'cancelled'
    AND check_in_date < ?
    AND ? < check_out_date
)
`

const insertBookingSQL = `
INSERT INTO bookings
  (listing_id, user_id, check_in_date, check_out_date, num_guests,
   total_price, status, special_requests)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `
SELECT id, listing_id, user_id, check_in_date, check_out_date, num_guests,
       total_price, status, special_requests, created_at, updated_at
FROM bookings
WHERE id = ?
`

const listBookingsSQL = `
SELECT id, listing_id, user_id, check_in_date, check_out_date, num_guests,
       total_price, status, special_requests, created_at, updated_at
FROM bookings
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

const countBookingsSQL = `
SELECT COUNT(*) FROM bookings WHERE user_id = ?
`

const updateBookingStatusSQL = `
UPDATE bookings SET status = ? WHERE id = ?
`

const deleteBookingSQL = `
DELETE FROM bookings WHERE id = ?
`

// -----------------------------------------------------------------------------
// REVIEWS
// -----------------------------------------------------------------------------

const insertReviewSQL = `
INSERT INTO reviews
  (listing_id, user_id, booking_id, rating, comment,
   cleanliness_rating, accuracy_rating, location_rating, value_rating)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getReviewSQL = `
SELECT id, listing_id, user_id, booking_id, rating, comment,
       cleanliness_rating, accuracy_rating, location_rating, value_rating,
       created_at, updated_at
FROM reviews
WHERE id = ?
`

const listReviewsSQL = `
SELECT id, listing_id, user_id, booking_id, rating, comment,
       cleanliness_rating, accuracy_rating, location_rating, value_rating,
       created_at, updated_at
FROM reviews
WHERE listing_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

const countReviewsSQL = `
SELECT COUNT(*) FROM reviews WHERE listing_id = ?
`

const updateReviewSQL = `
UPDATE reviews
SET rating = ?, comment = ?, cleanliness_rating = ?, accuracy_rating = ?,
    location_rating = ?, value_rating = ?
WHERE id = ?
`

const deleteReviewSQL = `
DELETE FROM reviews WHERE id = ?
`

// -----------------------------------------------------------------------------
// PAYMENTS
// -----------------------------------------------------------------------------

const insertPaymentSQL = `
INSERT INTO payments
  (payment_ref, booking_id, user_id, amount, currency, status, checkout_url, gateway_tx_ref)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const getPaymentByRefSQL = `
SELECT id, payment_ref, booking_id, user_id, amount, currency, status,
       checkout_url, gateway_tx_ref, created_at, updated_at
FROM payments
WHERE payment_ref = ?
`

const updatePaymentStatusSQL = `
UPDATE payments SET status = ?, gateway_tx_ref = ? WHERE payment_ref = ?
`
