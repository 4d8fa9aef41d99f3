package sqlinline

const QInsertCampaign = `--sql 1aacfb18-60ce-43a7-88c8-f958eb9820db
insert into campaigns(id, doc)
values ($1::uuid, $2::jsonb);
`

const QListCampaigns = `--sql dd7cf296-b2b7-47ac-a9bc-4974212d0ad9
select id::text, doc
from campaigns
order by created_at, id;
`

// QListCampaignsByMinimumDonation sorts numeric amounts ascending; documents
// whose amount is not a number sort last.
const QListCampaignsByMinimumDonation = `--sql cc291a69-c18a-47d6-b8da-5f3684deaf96
select id::text, doc
from campaigns
order by case
        when jsonb_typeof(doc->'minimumDonation') = 'number'
            then (doc->>'minimumDonation')::numeric
        when doc->>'minimumDonation' ~ '^\s*-?[0-9]+(\.[0-9]+)?\s*$'
            then trim(doc->>'minimumDonation')::numeric
    end asc nulls last, created_at, id;
`

const QListCampaignsByOwner = `--sql 0d1130be-3aff-47a1-94a2-3f2a5c09e1f9
select id::text, doc
from campaigns
where doc->>'userEmail' = $1::text
order by created_at, id;
`

const QSelectCampaignByID = `--sql cd3a8a17-b670-43fb-a8b5-4c64eeb5b7bb
select id::text, doc
from campaigns
where id = $1::uuid;
`

// QUpsertCampaign merges the update into an existing document or inserts a
// new one. matched is 0 when the insert branch ran; modified reports whether
// the stored document changed.
const QUpsertCampaign = `--sql d485ddf4-dd17-4e94-bade-5034af65b1b7
with prev as (
    select doc from campaigns where id = $1::uuid for update
), up as (
    insert into campaigns(id, doc)
    values ($1::uuid, $2::jsonb)
    on conflict (id) do update
    set doc = campaigns.doc || excluded.doc
    returning doc
)
select (select count(*) from prev) as matched,
       coalesce((select p.doc is distinct from u.doc from prev p, up u), false) as modified
from up;
`

const QDeleteCampaign = `--sql 36105823-d798-46f2-8426-fab872c17858
delete from campaigns
where id = $1::uuid;
`
