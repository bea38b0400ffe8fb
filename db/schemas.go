package db

var schema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS events (
    event_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    title VARCHAR(255) NOT NULL,
    venue VARCHAR(255) NOT NULL,
    price NUMERIC(10, 2) NOT NULL,
    starts_at TIMESTAMPTZ NOT NULL,
    capacity INT NOT NULL CHECK (capacity >= 0),
    available_seats INT NOT NULL CHECK (available_seats >= 0 AND available_seats <= capacity),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
    booking_id UUID PRIMARY KEY,
    booking_reference VARCHAR(32) NOT NULL UNIQUE,
    user_id UUID NOT NULL,
    event_id UUID NOT NULL REFERENCES events (event_id),
    number_of_tickets INT NOT NULL CHECK (number_of_tickets >= 1),
    total_amount NUMERIC(10, 2) NOT NULL,
    booking_status VARCHAR(16) NOT NULL,
    payment_status VARCHAR(16) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    cancelled_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS bookings_event_id_idx ON bookings (event_id);
CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id);
`
