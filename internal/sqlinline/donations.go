package sqlinline

const QInsertDonation = `--sql d2ff94c1-db23-4690-8d5d-507a39bef622
insert into donations(id, doc)
values ($1::uuid, $2::jsonb);
`

const QListDonationsByDonor = `--sql ecff268a-8ec4-494e-b296-d250d825c424
select id::text, doc
from donations
where doc->>'donorEmail' = $1::text
order by created_at, id;
`
